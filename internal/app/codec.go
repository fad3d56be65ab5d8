package app

import (
	"fmt"
	"math"

	"azool/internal/domain"
)

// Envelope is the loosely typed form of a protocol message, as decoded from
// JSON or a protobuf Struct. Numbers usually arrive as float64.
type Envelope map[string]any

// Wire keys.
const (
	KeyReqType          = "req_type"
	KeyPlayer           = "player"
	KeyFactoryIdx       = "factory_idx"
	KeyTileColor        = "tile_color"
	KeyRow              = "row"
	KeyNumTilesReturned = "num_tiles_returned"
	KeyCurrentPlayer    = "current_player"
	KeyRound            = "round"
	KeyPoolPenalty      = "pool_penalty"
	KeySuccess          = "success"
	KeyCount            = "count"
	KeyError            = "error"
	KeyFor              = "for"
	KeyDisplays         = "displays"
	KeyPool             = "pool"
	KeyMarker           = "marker"
	KeyRoundOver        = "round_over"
)

func (e Envelope) int(key string) (int, error) {
	raw, ok := e[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrBadRequest, key)
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		if v > math.MaxInt32 || v < math.MinInt32 {
			return 0, fmt.Errorf("%w: %s out of range", ErrBadRequest, key)
		}
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %s is not an integer", ErrBadRequest, key)
		}
		if math.Abs(v) > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %s out of range", ErrBadRequest, key)
		}
		return int(v), nil
	}
	return 0, fmt.Errorf("%w: %s has type %T", ErrBadRequest, key, raw)
}

func (e Envelope) color(key string) (domain.Color, error) {
	if s, ok := e[key].(string); ok {
		c, err := domain.ParseColor(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		return c, nil
	}
	v, err := e.int(key)
	if err != nil {
		return 0, err
	}
	c, err := domain.ColorFromInt(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return c, nil
}

func (e Envelope) kind() (RequestKind, error) {
	s, ok := e[KeyReqType].(string)
	if !ok {
		return "", fmt.Errorf("%w: missing %s", ErrBadRequest, KeyReqType)
	}
	return RequestKind(s), nil
}

// DecodeRequest builds the typed request carried by env. player is the
// sender as established by the transport; any player field in env is ignored.
func DecodeRequest(player int, env Envelope) (Request, error) {
	kind, err := env.kind()
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindGetBoard:
		return GetBoard{Player: player}, nil
	case KindTurnFinished:
		return TurnFinished{Player: player}, nil
	case KindReturnToBag:
		c, err := env.color(KeyTileColor)
		if err != nil {
			return nil, err
		}
		n, err := env.int(KeyNumTilesReturned)
		if err != nil {
			return nil, err
		}
		return ReturnToBag{Player: player, Color: c, Count: n}, nil
	case KindDrawFromFactory, KindDrawFromPool, KindDiscardFromFactory, KindDiscardFromPool:
		mv, err := decodeTake(kind, env)
		if err != nil {
			return nil, err
		}
		req, _ := mv.request(player)
		return req, nil
	}
	return nil, fmt.Errorf("%w: unknown %s %q", ErrBadRequest, KeyReqType, kind)
}

// DecodeMove reads a client's move: a take request plus, for draws, the row.
// The sender is bound later by the player actor that sends it on.
func DecodeMove(env Envelope) (Move, error) {
	req, err := DecodeRequest(-1, env)
	if err != nil {
		return Move{}, err
	}
	mv, ok := moveFor(req)
	if !ok {
		return Move{}, fmt.Errorf("%w: %q is not a move", ErrBadRequest, req.Kind())
	}
	if mv.IsDraw() {
		if mv.Row, err = env.int(KeyRow); err != nil {
			return Move{}, err
		}
	}
	return mv, nil
}

func decodeTake(kind RequestKind, env Envelope) (Move, error) {
	mv := Move{Action: kind, Display: -1}
	var err error
	if mv.Color, err = env.color(KeyTileColor); err != nil {
		return Move{}, err
	}
	if kind == KindDrawFromFactory || kind == KindDiscardFromFactory {
		if mv.Display, err = env.int(KeyFactoryIdx); err != nil {
			return Move{}, err
		}
	}
	return mv, nil
}

func countsToWire(tc domain.TileCounts) []any {
	out := make([]any, len(tc))
	for i, v := range tc {
		out[i] = float64(v)
	}
	return out
}

// EncodeMessage flattens msg into an Envelope using the same keys clients
// send. Colors are encoded as their integers.
func EncodeMessage(msg Message) Envelope {
	env := Envelope{KeyReqType: string(msg.Kind()), KeyPlayer: float64(msg.To())}
	switch m := msg.(type) {
	case BeginTurn:
		env[KeyCurrentPlayer] = float64(m.Player)
		env[KeyRound] = float64(m.Round)
	case DrawReply:
		env[KeySuccess] = m.Success
		env[KeyCount] = float64(m.Count)
		env[KeyPoolPenalty] = m.PoolPenalty
		if m.Err != nil {
			env[KeyError] = m.Err.Error()
		}
	case BoardSnapshot:
		env[KeyCurrentPlayer] = float64(m.Player)
		displays := make([]any, len(m.Displays))
		for i, d := range m.Displays {
			displays[i] = countsToWire(d)
		}
		env[KeyDisplays] = displays
		env[KeyPool] = countsToWire(m.Pool)
		env[KeyMarker] = m.Marker
		env[KeyRoundOver] = m.RoundOver
	case EndOfRound:
		env[KeyRound] = float64(m.Round)
	case ErrorReply:
		env[KeyFor] = string(m.For)
		if m.Err != nil {
			env[KeyError] = m.Err.Error()
		}
	}
	return env
}
