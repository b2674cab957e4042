package recordstore

import "github.com/KasumiMercury/primind-void-timer/internal/domain"

type BatchSaveRequest struct {
	Records []domain.Event `json:"records"`
}

type BatchSaveResponse struct {
	Results []RecordResult `json:"results"`
}

type RecordResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
