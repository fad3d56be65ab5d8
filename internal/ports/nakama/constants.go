package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby match.
	RpcQuickMatch = "quick_match"

	// MatchNameAzool is the authoritative match handler name registered with Nakama.
	MatchNameAzool = "azool_match"

	// GameConfigPath is read once when the module loads.
	GameConfigPath = "data/game_config.json"

	// EnvSeatSecret names the runtime env entry holding the seat token secret.
	EnvSeatSecret = "azool_seat_secret"

	// MetadataSeatToken is the join metadata key carrying the quick_match token.
	MetadataSeatToken = "seat_token"
)

// Match label keys and phases.
const (
	LabelKeyGame  = "game"
	LabelKeyPhase = "phase"
	LabelKeyOpen  = "open"

	LabelGame    = "azool"
	PhaseLobby   = "lobby"
	PhasePlaying = "playing"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame int64 = 1
	OpMove      int64 = 2

	// Server -> Client events
	OpMatchState  int64 = 101
	OpGameStarted int64 = 102
	OpRoundDealt  int64 = 103
	OpTurnBegan   int64 = 104
	OpYourTurn    int64 = 105 // send privately
	OpTilesTaken  int64 = 106
	OpRoundScored int64 = 107
	OpGameEnded   int64 = 108
	OpGameError   int64 = 109
)
