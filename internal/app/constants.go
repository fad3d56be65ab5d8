package app

// MinPlayersToStartGame is the smallest table a game can run with.
const MinPlayersToStartGame = 2

// MaxPlayersPerGame bounds the table size the display formula is tuned for.
const MaxPlayersPerGame = 4

// DefaultMailboxSize is the buffer of every player and arbiter mailbox.
const DefaultMailboxSize = 16
