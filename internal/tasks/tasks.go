package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeUsagePrune     = "usage:prune"
	TypeAnalysisExport = "analysis:export"
)

// Enqueuer is the subset of asynq.Client used by producers. Tests substitute
// an in-memory recorder.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type UsagePrunePayload struct{}

func NewUsagePruneTask(opts ...asynq.Option) (*asynq.Task, error) {
	payloadBytes, err := json.Marshal(UsagePrunePayload{})
	if err != nil {
		return nil, err
	}

	uniqueOpt := asynq.Unique(1 * time.Hour)
	allOpts := append(opts, uniqueOpt)

	return asynq.NewTask(TypeUsagePrune, payloadBytes, allOpts...), nil
}

// AnalysisExportPayload is the telemetry row shipped to the configured
// webhook after a successful dashboard analysis.
type AnalysisExportPayload struct {
	Email        string   `json:"email"`
	ImageName    string   `json:"imageName"`
	OverallScore any      `json:"overallScore"`
	Prompt       string   `json:"prompt"`
	Colors       []string `json:"colors"`
	Fonts        []string `json:"fonts"`
	Hooks        []string `json:"hooks"`
	AnalyzedAt   string   `json:"analyzedAt"`
}

func NewAnalysisExportTask(payload AnalysisExportPayload, opts ...asynq.Option) (*asynq.Task, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	allOpts := append(opts, asynq.MaxRetry(3), asynq.Queue("low"))
	return asynq.NewTask(TypeAnalysisExport, payloadBytes, allOpts...), nil
}
