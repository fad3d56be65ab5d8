package app

import (
	"errors"
	"math"
	"testing"

	"azool/internal/domain"
)

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name string
		env  Envelope
		want Request
	}{
		{"factory draw", Envelope{"req_type": "DRAW_FROM_FACTORY", "factory_idx": 2.0, "tile_color": 3.0},
			DrawFromFactory{Player: 1, Display: 2, Color: domain.Yellow}},
		{"pool draw by name", Envelope{"req_type": "DRAW_FROM_POOL", "tile_color": "blue"},
			DrawFromPool{Player: 1, Color: domain.Blue}},
		{"factory discard", Envelope{"req_type": "DISCARD_FROM_FACTORY", "factory_idx": 0, "tile_color": "w"},
			DiscardFromFactory{Player: 1, Display: 0, Color: domain.White}},
		{"pool discard", Envelope{"req_type": "DISCARD_FROM_POOL", "tile_color": int64(0)},
			DiscardFromPool{Player: 1, Color: domain.Red}},
		{"return", Envelope{"req_type": "RETURN_TO_BAG", "tile_color": 1.0, "num_tiles_returned": 3.0},
			ReturnToBag{Player: 1, Color: domain.Blue, Count: 3}},
		{"board ignores claimed player", Envelope{"req_type": "GET_BOARD", "player": 0.0},
			GetBoard{Player: 1}},
		{"turn finished", Envelope{"req_type": "TURN_FINISHED"}, TurnFinished{Player: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRequest(1, tt.env)
			if err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("decoded %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeRequestRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		env  Envelope
	}{
		{"no kind", Envelope{"tile_color": 1.0}},
		{"unknown kind", Envelope{"req_type": "TAKE_TURN"}},
		{"missing display", Envelope{"req_type": "DRAW_FROM_FACTORY", "tile_color": 1.0}},
		{"fractional display", Envelope{"req_type": "DRAW_FROM_FACTORY", "factory_idx": 1.5, "tile_color": 1.0}},
		{"color out of range", Envelope{"req_type": "DRAW_FROM_POOL", "tile_color": 5.0}},
		{"color name unknown", Envelope{"req_type": "DRAW_FROM_POOL", "tile_color": "purple"}},
		{"missing count", Envelope{"req_type": "RETURN_TO_BAG", "tile_color": 1.0}},
		{"count wrong type", Envelope{"req_type": "RETURN_TO_BAG", "tile_color": 1.0, "num_tiles_returned": true}},
		{"count too large", Envelope{"req_type": "RETURN_TO_BAG", "tile_color": 1.0, "num_tiles_returned": 1e300}},
		{"display too negative", Envelope{"req_type": "DRAW_FROM_FACTORY", "factory_idx": -1e19, "tile_color": 1.0}},
		{"int64 count too large", Envelope{"req_type": "RETURN_TO_BAG", "tile_color": 1.0, "num_tiles_returned": int64(1) << 40}},
		{"not a number", Envelope{"req_type": "RETURN_TO_BAG", "tile_color": 1.0, "num_tiles_returned": math.NaN()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeRequest(0, tt.env); !errors.Is(err, ErrBadRequest) {
				t.Fatalf("err = %v, want ErrBadRequest", err)
			}
		})
	}
}

func TestDecodeMove(t *testing.T) {
	mv, err := DecodeMove(Envelope{"req_type": "DRAW_FROM_FACTORY", "factory_idx": 1.0, "tile_color": "RED", "row": 2.0})
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	want := Move{Action: KindDrawFromFactory, Display: 1, Color: domain.Red, Row: 2}
	if mv != want {
		t.Fatalf("move = %+v, want %+v", mv, want)
	}

	mv, err = DecodeMove(Envelope{"req_type": "DISCARD_FROM_POOL", "tile_color": 4.0})
	if err != nil {
		t.Fatalf("discard decode error: %v", err)
	}
	if mv.Action != KindDiscardFromPool || mv.Color != domain.White || mv.Display != -1 {
		t.Fatalf("discard move = %+v", mv)
	}

	if _, err := DecodeMove(Envelope{"req_type": "DRAW_FROM_POOL", "tile_color": 4.0}); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("draw without row err = %v, want ErrBadRequest", err)
	}
	if _, err := DecodeMove(Envelope{"req_type": "GET_BOARD"}); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("non-move err = %v, want ErrBadRequest", err)
	}
	if _, err := DecodeMove(Envelope{"req_type": "DRAW_FROM_FACTORY", "tile_color": "RED", "row": 0.0}); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("draw without display err = %v, want ErrBadRequest", err)
	}
	if _, err := DecodeMove(Envelope{"req_type": "DRAW_FROM_POOL", "tile_color": "RED", "row": 1e12}); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("huge row err = %v, want ErrBadRequest", err)
	}
}

func TestEncodeMessage(t *testing.T) {
	env := EncodeMessage(DrawReply{Player: 1, For: KindDrawFromPool, Success: true, Count: 2, PoolPenalty: true})
	if env[KeyReqType] != "DRAW_FROM_POOL" || env[KeyPlayer] != 1.0 {
		t.Fatalf("header = %v", env)
	}
	if env[KeySuccess] != true || env[KeyCount] != 2.0 || env[KeyPoolPenalty] != true {
		t.Fatalf("body = %v", env)
	}
	if _, ok := env[KeyError]; ok {
		t.Fatal("successful reply carries an error")
	}

	var d domain.TileCounts
	d[domain.Green] = 4
	env = EncodeMessage(BoardSnapshot{Player: 0, Displays: []domain.TileCounts{d}, Marker: true})
	displays, ok := env[KeyDisplays].([]any)
	if !ok || len(displays) != 1 {
		t.Fatalf("displays = %#v", env[KeyDisplays])
	}
	if counts := displays[0].([]any); counts[domain.Green] != 4.0 {
		t.Fatalf("display 0 = %v", counts)
	}
	if env[KeyMarker] != true || env[KeyRoundOver] != false {
		t.Fatalf("flags = %v", env)
	}
	if env[KeyCurrentPlayer] != 0.0 || env[KeyPlayer] != 0.0 {
		t.Fatalf("snapshot correlation = %v", env)
	}
	env = EncodeMessage(BoardSnapshot{Player: 1})
	if env[KeyCurrentPlayer] != 1.0 {
		t.Fatalf("snapshot for player 1 echoes %v", env[KeyCurrentPlayer])
	}

	env = EncodeMessage(BeginTurn{Player: 1, Round: 3})
	if env[KeyCurrentPlayer] != 1.0 || env[KeyRound] != 3.0 {
		t.Fatalf("begin turn = %v", env)
	}

	env = EncodeMessage(ErrorReply{Player: 0, For: KindReturnToBag, Err: ErrBadRequest})
	if env[KeyReqType] != "ERROR" || env[KeyFor] != "RETURN_TO_BAG" || env[KeyError] != ErrBadRequest.Error() {
		t.Fatalf("error reply = %v", env)
	}
}
