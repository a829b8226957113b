package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dalbom/arithmetic/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PresetRepository handles saved worksheet configurations.
type PresetRepository struct {
	pool *pgxpool.Pool
}

// NewPresetRepository creates a new PresetRepository.
func NewPresetRepository(pool *pgxpool.Pool) *PresetRepository {
	return &PresetRepository{pool: pool}
}

const presetColumns = `id, user_id, name, child_name, icon_color_hex, config, created_at, last_used_at`

func scanPreset(row pgx.Row) (*model.Preset, error) {
	p := &model.Preset{}
	var raw []byte
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.ChildName, &p.IconColorHex, &raw, &p.CreatedAt, &p.LastUsedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &p.Config); err != nil {
		return nil, fmt.Errorf("decode preset config: %w", err)
	}
	return p, nil
}

// ListByUser returns a user's presets, most recently used first.
func (r *PresetRepository) ListByUser(ctx context.Context, userID int) ([]model.Preset, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+presetColumns+` FROM presets
		 WHERE user_id = $1
		 ORDER BY last_used_at DESC NULLS LAST, created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	presets := []model.Preset{}
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, *p)
	}
	return presets, rows.Err()
}

// CountByUser returns how many presets a user has stored.
func (r *PresetRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM presets WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

// GetByID retrieves a preset owned by userID.
func (r *PresetRepository) GetByID(ctx context.Context, userID int, id uuid.UUID) (*model.Preset, error) {
	return scanPreset(r.pool.QueryRow(ctx,
		`SELECT `+presetColumns+` FROM presets WHERE id = $1 AND user_id = $2`, id, userID))
}

// Create inserts a new preset.
func (r *PresetRepository) Create(ctx context.Context, p *model.Preset) error {
	raw, err := json.Marshal(p.Config)
	if err != nil {
		return fmt.Errorf("encode preset config: %w", err)
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO presets (id, user_id, name, child_name, icon_color_hex, config)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		p.ID, p.UserID, p.Name, p.ChildName, p.IconColorHex, raw,
	).Scan(&p.CreatedAt)
}

// Update overwrites the editable fields of a preset.
func (r *PresetRepository) Update(ctx context.Context, p *model.Preset) error {
	raw, err := json.Marshal(p.Config)
	if err != nil {
		return fmt.Errorf("encode preset config: %w", err)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE presets SET name = $1, child_name = $2, icon_color_hex = $3, config = $4
		 WHERE id = $5 AND user_id = $6`,
		p.Name, p.ChildName, p.IconColorHex, raw, p.ID, p.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Touch marks a preset as used now.
func (r *PresetRepository) Touch(ctx context.Context, userID int, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE presets SET last_used_at = CURRENT_TIMESTAMP WHERE id = $1 AND user_id = $2`, id, userID)
	return err
}

// Delete removes a preset owned by userID.
func (r *PresetRepository) Delete(ctx context.Context, userID int, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM presets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
