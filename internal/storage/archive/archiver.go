package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/quantfold/helix/internal/backtest"
	"github.com/quantfold/helix/internal/core"
	"go.uber.org/zap"
)

// Record is an archived backtest run.
type Record struct {
	ID         string           `json:"id"`
	Strategy   string           `json:"strategy"`
	ArchivedAt string           `json:"archivedAt"`
	Result     *backtest.Result `json:"result"`
}

// Archiver writes backtest results to a Store as JSON documents keyed
// by strategy and run ID.
type Archiver struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewArchiver creates an Archiver over the given store.
func NewArchiver(store Store, logger *zap.Logger) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func recordPath(strategy, id string) string {
	return fmt.Sprintf("results/%s/%s.json", strategy, id)
}

// Save archives one result and returns the record ID.
func (a *Archiver) Save(ctx context.Context, strategy string, result *backtest.Result) (string, error) {
	rec := Record{
		ID:         uuid.New().String(),
		Strategy:   strategy,
		ArchivedAt: a.now().UTC().Format(time.RFC3339),
		Result:     result,
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, err)
	}

	if err := a.store.Put(ctx, recordPath(strategy, rec.ID), data); err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, err)
	}

	a.logger.Info("backtest result archived",
		zap.String("strategy", strategy),
		zap.String("id", rec.ID),
	)
	return rec.ID, nil
}

// Load retrieves one archived record.
func (a *Archiver) Load(ctx context.Context, strategy, id string) (*Record, error) {
	data, err := a.store.Get(ctx, recordPath(strategy, id))
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}
	return &rec, nil
}

// ListRuns returns archived run paths for a strategy, newest-neutral
// lexicographic order.
func (a *Archiver) ListRuns(ctx context.Context, strategy string) ([]string, error) {
	paths, err := a.store.List(ctx, "results/"+strategy)
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}
	sort.Strings(paths)
	return paths, nil
}
