package persistence

import (
	"context"
	"time"

	"mailtriage/core/domain"
	"mailtriage/core/port/out"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// HistoryAdapter implements HistoryRepository
type HistoryAdapter struct {
	db *sqlx.DB
}

// NewHistoryAdapter creates a new HistoryAdapter
func NewHistoryAdapter(db *sqlx.DB) *HistoryAdapter {
	return &HistoryAdapter{db: db}
}

// Ensure HistoryAdapter implements HistoryRepository
var _ out.HistoryRepository = (*HistoryAdapter)(nil)

// triageRow represents the database row
type triageRow struct {
	ID          uuid.UUID `db:"id"`
	Category    string    `db:"category"`
	RawScore    float64   `db:"raw_score"`
	Score       float64   `db:"score"`
	WordCount   int       `db:"word_count"`
	TokenCount  int       `db:"token_count"`
	ReplySource string    `db:"reply_source"`
	CreatedAt   time.Time `db:"created_at"`
}

// Record persists one processed submission
func (a *HistoryAdapter) Record(ctx context.Context, rec *domain.TriageRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	query := `
		INSERT INTO triage_history (id, category, raw_score, score, word_count, token_count, reply_source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	return a.db.QueryRowxContext(
		ctx, query,
		rec.ID,
		string(rec.Category),
		rec.RawScore,
		rec.Score,
		rec.WordCount,
		rec.TokenCount,
		rec.ReplySource,
	).Scan(&rec.CreatedAt)
}

// List returns the most recent records, newest first
func (a *HistoryAdapter) List(ctx context.Context, limit int) ([]*domain.TriageRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT id, category, raw_score, score, word_count, token_count, reply_source, created_at
		FROM triage_history
		ORDER BY created_at DESC
		LIMIT $1
	`

	var rows []triageRow
	if err := a.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, err
	}

	records := make([]*domain.TriageRecord, 0, len(rows))
	for i := range rows {
		records = append(records, rowToRecord(&rows[i]))
	}
	return records, nil
}

// rowToRecord converts database row to domain model
func rowToRecord(row *triageRow) *domain.TriageRecord {
	return &domain.TriageRecord{
		ID:          row.ID,
		Category:    domain.Category(row.Category),
		RawScore:    row.RawScore,
		Score:       row.Score,
		WordCount:   row.WordCount,
		TokenCount:  row.TokenCount,
		ReplySource: row.ReplySource,
		CreatedAt:   row.CreatedAt,
	}
}
