package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"azool/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// storageWriter is the slice of runtime.NakamaModule the result store needs.
type storageWriter interface {
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
}

// NakamaResultStore implements ports.ResultPort with Nakama storage. Every
// human player gets a read-only copy of the result under their account.
type NakamaResultStore struct {
	nk         storageWriter
	collection string
}

func NewNakamaResultStore(nk storageWriter, collection string) *NakamaResultStore {
	return &NakamaResultStore{nk: nk, collection: collection}
}

func (s *NakamaResultStore) SaveResult(ctx context.Context, result ports.GameResult) error {
	if result.GameID == "" {
		return fmt.Errorf("game id is required")
	}
	value, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal game result: %w", err)
	}

	writes := make([]*runtime.StorageWrite, 0, len(result.Players))
	for _, p := range result.Players {
		if p.UserID == "" {
			continue
		}
		writes = append(writes, &runtime.StorageWrite{
			Collection:      s.collection,
			Key:             result.GameID,
			UserID:          p.UserID,
			Value:           string(value),
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		})
	}
	if len(writes) == 0 {
		return nil
	}

	acks, err := s.nk.StorageWrite(ctx, writes)
	if err != nil {
		return fmt.Errorf("failed to store game result %s: %w", result.GameID, err)
	}
	if len(acks) != len(writes) {
		return fmt.Errorf("stored %d of %d result objects", len(acks), len(writes))
	}
	return nil
}

var _ ports.ResultPort = (*NakamaResultStore)(nil)
