package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/postlens/post-analyzer-api/internal/domain/analysis"
)

type AnalyzeRequest struct {
	ImageBase64 string `json:"imageBase64" binding:"required"`
	MimeType    string `json:"mimeType" binding:"required"`
	ImageName   string `json:"imageName"`
	Mode        string `json:"mode" binding:"omitempty,oneof=standard deep"`
}

type AnalyzeResponse struct {
	Success  bool            `json:"success"`
	Analysis analysis.Result `json:"analysis"`
}

// ExternalAnalyzeRequest is the key-authenticated API payload. Binding is
// checked by hand in the handler so missing fields map to the documented
// {error} shape rather than the dashboard validation DTO.
type ExternalAnalyzeRequest struct {
	ImageBase64 string `json:"imageBase64"`
	MimeType    string `json:"mimeType"`
}

type ExternalAnalyzeResponse struct {
	Success bool                  `json:"success"`
	Data    analysis.PublicResult `json:"data"`
}

type AnalysisHistoryItem struct {
	ID             uuid.UUID       `json:"id"`
	ImageName      string          `json:"imageName"`
	ImageThumbnail string          `json:"imageThumbnail"`
	Analysis       json.RawMessage `json:"analysis"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type DashboardSummaryResponse struct {
	KeyCount      int `json:"keyCount"`
	AnalysisCount int `json:"analysisCount"`
	UsageLastDay  int `json:"usageLastDay"`
	UsageLastHour int `json:"usageLastHour"`
}
