package memstorage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/postlens/post-analyzer-api/internal/domain/analysis"
)

type AnalysisRepositoryMock struct {
	mu      sync.RWMutex
	records []*analysis.Record
}

func NewAnalysisRepositoryMock() *AnalysisRepositoryMock {
	return &AnalysisRepositoryMock{}
}

var _ analysis.Repository = (*AnalysisRepositoryMock)(nil)

func (r *AnalysisRepositoryMock) Save(ctx context.Context, rec *analysis.Record) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec.ID = uuid.New()
	rec.CreatedAt = time.Now().UTC()
	stored := *rec
	r.records = append(r.records, &stored)
	return rec.ID, nil
}

func (r *AnalysisRepositoryMock) ListForAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*analysis.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	var out []*analysis.Record
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		if r.records[i].AccountID == accountID {
			recCopy := *r.records[i]
			out = append(out, &recCopy)
		}
	}
	return out, nil
}

func (r *AnalysisRepositoryMock) FindByID(ctx context.Context, id, accountID uuid.UUID) (*analysis.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if rec.ID == id && rec.AccountID == accountID {
			recCopy := *rec
			return &recCopy, nil
		}
	}
	return nil, analysis.ErrNotFound
}
