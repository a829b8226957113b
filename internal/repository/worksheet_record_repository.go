package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dalbom/arithmetic/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WorksheetRecordStore is the per-user record access used by the services.
type WorksheetRecordStore interface {
	GetByID(ctx context.Context, userID int, id uuid.UUID) (*model.WorksheetRecord, error)
	ListPaginated(ctx context.Context, userID, limit, offset int) ([]model.WorksheetRecord, int, error)
	Delete(ctx context.Context, userID int, id uuid.UUID) error
}

var _ WorksheetRecordStore = (*WorksheetRecordRepository)(nil)

// WorksheetRecordRepository handles worksheet history.
type WorksheetRecordRepository struct {
	pool *pgxpool.Pool
}

// NewWorksheetRecordRepository creates a new WorksheetRecordRepository.
func NewWorksheetRecordRepository(pool *pgxpool.Pool) *WorksheetRecordRepository {
	return &WorksheetRecordRepository{pool: pool}
}

const recordColumns = `id, user_id, config, seed, sequence_number, used_latex, lang, created_at`

func scanRecord(row pgx.Row) (*model.WorksheetRecord, error) {
	rec := &model.WorksheetRecord{}
	var (
		raw  []byte
		seed int64
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &raw, &seed, &rec.SequenceNumber, &rec.UsedLaTeX, &rec.Lang, &rec.CreatedAt); err != nil {
		return nil, err
	}
	// Seeds are stored bit-for-bit in a signed BIGINT.
	rec.Seed = uint64(seed)
	if err := json.Unmarshal(raw, &rec.Config); err != nil {
		return nil, fmt.Errorf("decode worksheet config: %w", err)
	}
	return rec, nil
}

// GetByID retrieves a record owned by userID.
func (r *WorksheetRecordRepository) GetByID(ctx context.Context, userID int, id uuid.UUID) (*model.WorksheetRecord, error) {
	return scanRecord(r.pool.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM worksheet_records WHERE id = $1 AND user_id = $2`, id, userID))
}

// ListPaginated returns a user's records, newest first, with the total count.
func (r *WorksheetRecordRepository) ListPaginated(ctx context.Context, userID, limit, offset int) ([]model.WorksheetRecord, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM worksheet_records WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+recordColumns+` FROM worksheet_records
		 WHERE user_id = $1
		 ORDER BY created_at DESC, sequence_number DESC
		 LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := []model.WorksheetRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *rec)
	}
	return records, total, rows.Err()
}

// Create inserts a single record.
func (r *WorksheetRecordRepository) Create(ctx context.Context, rec *model.WorksheetRecord) error {
	raw, err := json.Marshal(rec.Config)
	if err != nil {
		return fmt.Errorf("encode worksheet config: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO worksheet_records (id, user_id, config, seed, sequence_number, used_latex, lang, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.UserID, raw, int64(rec.Seed), rec.SequenceNumber, rec.UsedLaTeX, rec.Lang, rec.CreatedAt,
	)
	return err
}

// CreateBatch inserts many records in one statement.
func (r *WorksheetRecordRepository) CreateBatch(ctx context.Context, recs []*model.WorksheetRecord) error {
	n := len(recs)
	ids := make([]uuid.UUID, 0, n)
	users := make([]int, 0, n)
	configs := make([][]byte, 0, n)
	seeds := make([]int64, 0, n)
	seqs := make([]int, 0, n)
	latex := make([]bool, 0, n)
	langs := make([]string, 0, n)
	created := make([]time.Time, 0, n)

	for _, rec := range recs {
		raw, err := json.Marshal(rec.Config)
		if err != nil {
			return fmt.Errorf("encode worksheet config: %w", err)
		}
		ids = append(ids, rec.ID)
		users = append(users, rec.UserID)
		configs = append(configs, raw)
		seeds = append(seeds, int64(rec.Seed))
		seqs = append(seqs, rec.SequenceNumber)
		latex = append(latex, rec.UsedLaTeX)
		langs = append(langs, rec.Lang)
		created = append(created, rec.CreatedAt)
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO worksheet_records (id, user_id, config, seed, sequence_number, used_latex, lang, created_at)
		SELECT * FROM UNNEST(
			$1::uuid[],
			$2::int[],
			$3::jsonb[],
			$4::bigint[],
			$5::int[],
			$6::bool[],
			$7::text[],
			$8::timestamptz[]
		)
		ON CONFLICT (id) DO NOTHING`,
		ids, users, configs, seeds, seqs, latex, langs, created,
	)
	return err
}

// Delete removes a record owned by userID.
func (r *WorksheetRecordRepository) Delete(ctx context.Context, userID int, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM worksheet_records WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
