package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/postlens/post-analyzer-api/internal/storage/memstorage"
	"go.uber.org/zap"
)

func TestUsagePruneRemovesOnlyExpiredEvents(t *testing.T) {
	repo := memstorage.NewUsageRepositoryMock()
	keyID := uuid.New()
	accountID := uuid.New()

	// Two events older than retention, one fresh.
	repo.Now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	for i := 0; i < 2; i++ {
		if err := repo.Record(context.Background(), keyID, accountID); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	repo.Now = time.Now
	if err := repo.Record(context.Background(), keyID, accountID); err != nil {
		t.Fatalf("Record: %v", err)
	}

	handler := NewUsagePruneHandler(repo, 24*time.Hour, zap.NewNop())
	task, err := NewUsagePruneTask()
	if err != nil {
		t.Fatalf("NewUsagePruneTask: %v", err)
	}

	if err := handler.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}

	if repo.EventCount() != 1 {
		t.Errorf("events remaining = %d, want 1", repo.EventCount())
	}
}

func TestUsagePruneRejectsWrongTaskType(t *testing.T) {
	handler := NewUsagePruneHandler(memstorage.NewUsageRepositoryMock(), 24*time.Hour, zap.NewNop())
	task, err := NewAnalysisExportTask(AnalysisExportPayload{})
	if err != nil {
		t.Fatalf("NewAnalysisExportTask: %v", err)
	}

	if err := handler.ProcessTask(context.Background(), task); err == nil {
		t.Error("ProcessTask accepted a task of the wrong type")
	}
}
