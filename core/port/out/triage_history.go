package out

import (
	"context"

	"mailtriage/core/domain"
)

// HistoryRepository defines the outbound port for the triage history store.
type HistoryRepository interface {
	Record(ctx context.Context, rec *domain.TriageRecord) error
	List(ctx context.Context, limit int) ([]*domain.TriageRecord, error)
}
