package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalbom/arithmetic/internal/entitlement"
	"github.com/dalbom/arithmetic/internal/model"
	"github.com/dalbom/arithmetic/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DefaultPresetColor is used when a preset is saved without a colour.
const DefaultPresetColor = "#4A90D9"

// PresetService manages saved worksheet configurations.
type PresetService struct {
	presetRepo *repository.PresetRepository
}

// NewPresetService creates a new PresetService.
func NewPresetService(presetRepo *repository.PresetRepository) *PresetService {
	return &PresetService{presetRepo: presetRepo}
}

// List returns the caller's presets.
func (s *PresetService) List(ctx context.Context, userID int) ([]model.Preset, error) {
	return s.presetRepo.ListByUser(ctx, userID)
}

// Get returns one of the caller's presets.
func (s *PresetService) Get(ctx context.Context, userID int, id uuid.UUID) (*model.Preset, error) {
	p, err := s.presetRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPresetNotFound
		}
		return nil, fmt.Errorf("get preset: %w", err)
	}
	return p, nil
}

// Create stores a new preset after checking the plan's preset cap and the
// structural validity of its worksheet.
func (s *PresetService) Create(ctx context.Context, claims *Claims, req model.CreatePresetRequest) (*model.Preset, error) {
	spec := req.Worksheet.ToSpec()
	if err := ValidateSpec(spec); err != nil {
		return nil, err
	}

	count, err := s.presetRepo.CountByUser(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("count presets: %w", err)
	}
	if !entitlement.CanCreatePreset(claims.Plan(), count) {
		return nil, ErrPresetLimitReached
	}

	p := &model.Preset{
		UserID:       claims.UserID,
		Name:         req.Name,
		ChildName:    req.ChildName,
		IconColorHex: req.IconColorHex,
		Config:       spec,
	}
	if p.IconColorHex == "" {
		p.IconColorHex = DefaultPresetColor
	}
	if err := s.presetRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create preset: %w", err)
	}
	return p, nil
}

// Update applies the non-nil fields of req to a preset.
func (s *PresetService) Update(ctx context.Context, userID int, id uuid.UUID, req model.UpdatePresetRequest) (*model.Preset, error) {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.ChildName != nil {
		p.ChildName = *req.ChildName
	}
	if req.IconColorHex != nil {
		p.IconColorHex = *req.IconColorHex
	}
	if req.Worksheet != nil {
		spec := req.Worksheet.ToSpec()
		if err := ValidateSpec(spec); err != nil {
			return nil, err
		}
		p.Config = spec
	}

	if err := s.presetRepo.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPresetNotFound
		}
		return nil, fmt.Errorf("update preset: %w", err)
	}
	return p, nil
}

// Delete removes a preset.
func (s *PresetService) Delete(ctx context.Context, userID int, id uuid.UUID) error {
	if err := s.presetRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPresetNotFound
		}
		return fmt.Errorf("delete preset: %w", err)
	}
	return nil
}

// Touch records that a preset was just used.
func (s *PresetService) Touch(ctx context.Context, userID int, id uuid.UUID) error {
	return s.presetRepo.Touch(ctx, userID, id)
}
