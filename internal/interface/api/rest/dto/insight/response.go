package insight

import (
	"time"

	"github.com/google/uuid"

	"sheet-insights-api/internal/application/ports"
	"sheet-insights-api/internal/domain/insight"
)

type Response struct {
	FileName   string          `json:"fileName"`
	Insights   *insight.Report `json:"insights"`
	FileID     uuid.UUID       `json:"fileId"`
	UploadedAt time.Time       `json:"uploadedAt"`
}

func ToResponse(fi ports.FileInsights) Response {
	return Response{
		FileName:   fi.File.OriginalName,
		Insights:   fi.Report,
		FileID:     fi.File.ID,
		UploadedAt: fi.File.UploadedAt,
	}
}

func ToResponses(all []*ports.FileInsights) []Response {
	out := make([]Response, len(all))
	for idx, fi := range all {
		out[idx] = ToResponse(*fi)
	}

	return out
}
