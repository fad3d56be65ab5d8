package nakama

import (
	"fmt"

	"azool/internal/app"
	"azool/internal/domain"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// encodeEnvelope marshals env as a protobuf Struct, the payload format of
// every match message.
func encodeEnvelope(env app.Envelope) ([]byte, error) {
	s, err := structpb.NewStruct(env)
	if err != nil {
		return nil, fmt.Errorf("failed to build struct: %w", err)
	}
	return proto.Marshal(s)
}

func decodeEnvelope(data []byte) (app.Envelope, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", app.ErrBadRequest, err)
	}
	return app.Envelope(s.AsMap()), nil
}

func encodeLabel(phase string, open int) (string, error) {
	s, err := structpb.NewStruct(map[string]any{
		LabelKeyGame:  LabelGame,
		LabelKeyPhase: phase,
		LabelKeyOpen:  open,
	})
	if err != nil {
		return "", err
	}
	b, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func countsToWire(tc domain.TileCounts) []any {
	out := make([]any, len(tc))
	for i, v := range tc {
		out[i] = v
	}
	return out
}

func intsToWire(v []int) []any {
	out := make([]any, len(v))
	for i, n := range v {
		out[i] = n
	}
	return out
}

// lineToWire uses -1 for the color of an empty line.
func lineToWire(l domain.PatternLine) map[string]any {
	color := -1
	if c, ok := l.Color(); ok {
		color = c.Int()
	}
	return map[string]any{"count": l.Count(), app.KeyTileColor: color}
}

// wallToWire sends each cell as the color placed there, or -1 when empty.
func wallToWire(w domain.Wall) []any {
	rows := make([]any, domain.WallSize)
	for r := range w {
		cells := make([]any, domain.WallSize)
		for c, set := range w[r] {
			cells[c] = -1
			if set {
				cells[c] = domain.ColorAt(r, c).Int()
			}
		}
		rows[r] = cells
	}
	return rows
}

// turnViewEnvelope is the private prompt a client receives on its turn.
func turnViewEnvelope(v app.TurnView) app.Envelope {
	env := app.EncodeMessage(v.Snapshot)
	env[app.KeyReqType] = string(app.KindBeginTurn)
	env[app.KeyCurrentPlayer] = v.Player
	env[app.KeyRound] = v.Round
	lines := make([]any, len(v.Lines))
	for i, l := range v.Lines {
		lines[i] = lineToWire(l)
	}
	env["lines"] = lines
	env["wall"] = wallToWire(v.Wall)
	env["score"] = v.Score
	env["penalties"] = v.Penalties
	if v.Rejected != nil {
		env["rejected"] = v.Rejected.Error()
	}
	return env
}

// eventFrame converts an arbiter event into the frame clients receive. ok is
// false for kinds that are not forwarded.
func eventFrame(ev app.Event) (frame, bool) {
	f := frame{players: ev.Recipients, body: app.Envelope{}}
	switch p := ev.Payload.(type) {
	case app.RoundDealtPayload:
		f.op = OpRoundDealt
		displays := make([]any, len(p.Displays))
		for i, d := range p.Displays {
			displays[i] = countsToWire(d)
		}
		f.body[app.KeyRound] = p.Round
		f.body[app.KeyDisplays] = displays
		f.body["bag_size"] = p.BagSize
	case app.TurnBeganPayload:
		f.op = OpTurnBegan
		f.body[app.KeyRound] = p.Round
		f.body[app.KeyCurrentPlayer] = p.Player
	case app.TilesTakenPayload:
		f.op = OpTilesTaken
		f.body[app.KeyPlayer] = p.Player
		f.body[app.KeyReqType] = string(p.Request)
		f.body[app.KeyFactoryIdx] = p.Display
		f.body[app.KeyTileColor] = p.Color.Int()
		f.body[app.KeyCount] = p.Count
		f.body[app.KeyPoolPenalty] = p.PoolPenalty
	case app.RoundScoredPayload:
		f.op = OpRoundScored
		placements := make([]any, len(p.Result.Placements))
		for i, pl := range p.Result.Placements {
			placements[i] = map[string]any{"row": pl.Row, "col": pl.Col, app.KeyTileColor: pl.Color.Int(), "points": pl.Points}
		}
		f.body[app.KeyPlayer] = p.Player
		f.body[app.KeyRound] = p.Round
		f.body["placements"] = placements
		f.body["gained"] = p.Result.Gained
		f.body["penalty"] = p.Result.Penalty
		f.body["score"] = p.Score
		f.body["completed_row"] = p.Result.CompletedRow
	case app.GameEndedPayload:
		f.op = OpGameEnded
		standings := make([]any, len(p.Standings))
		for i, st := range p.Standings {
			standings[i] = map[string]any{app.KeyPlayer: st.Player, "score": st.Score, "bonus": st.Bonus, "wall": wallToWire(st.Wall)}
		}
		f.body["standings"] = standings
		f.body["winners"] = intsToWire(p.Standings.Winners())
	default:
		return frame{}, false
	}
	f.body["event"] = string(ev.Kind)
	return f, true
}
