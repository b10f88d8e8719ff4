package analysis

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Record is one stored analysis result for the dashboard history view.
// The full model output is kept as raw JSON.
type Record struct {
	ID             uuid.UUID       `db:"id"`
	AccountID      uuid.UUID       `db:"account_id"`
	ImageName      string          `db:"image_name"`
	ImageThumbnail string          `db:"image_thumbnail"`
	AnalysisJSON   json.RawMessage `db:"analysis_json"`
	CreatedAt      time.Time       `db:"created_at"`
}

// Result is the parsed upstream output. The external API never exposes it
// directly; PublicView projects the allowed subset.
type Result map[string]any

// PublicResult is the fixed allowlist of fields exposed through the
// key-authenticated external API. Anything else the upstream model returns
// is dropped at this boundary.
type PublicResult struct {
	ReverseEngineeredPrompt any `json:"reverseEngineeredPrompt"`
	SamplePrompt            any `json:"samplePrompt"`
	ColorAnalysis           any `json:"colorAnalysis"`
	DesignElements          any `json:"designElements"`
}

// PublicView projects the full result down to the external field set.
func PublicView(r Result) PublicResult {
	return PublicResult{
		ReverseEngineeredPrompt: r["reverseEngineeredPrompt"],
		SamplePrompt:            r["samplePrompt"],
		ColorAnalysis:           r["colorAnalysis"],
		DesignElements:          r["designElements"],
	}
}
