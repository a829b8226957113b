package model

import (
	"time"

	"github.com/dalbom/arithmetic/internal/arithmetic"
	"github.com/google/uuid"
)

// Preset is a saved worksheet configuration.
type Preset struct {
	ID           uuid.UUID                `json:"id"`
	UserID       int                      `json:"user_id"`
	Name         string                   `json:"name"`
	ChildName    string                   `json:"child_name"`
	IconColorHex string                   `json:"icon_color_hex"`
	Config       arithmetic.WorksheetSpec `json:"config"`
	CreatedAt    time.Time                `json:"created_at"`
	LastUsedAt   *time.Time               `json:"last_used_at,omitempty"`
}

// CreatePresetRequest is the payload for saving a preset.
type CreatePresetRequest struct {
	Name         string                   `json:"name" binding:"required,min=1,max=100"`
	ChildName    string                   `json:"child_name" binding:"omitempty,max=50"`
	IconColorHex string                   `json:"icon_color_hex" binding:"omitempty,hexcolor"`
	Worksheet    GenerateWorksheetRequest `json:"worksheet" binding:"required"`
}

// UpdatePresetRequest is the payload for updating a preset. Nil fields are
// left unchanged.
type UpdatePresetRequest struct {
	Name         *string                   `json:"name" binding:"omitempty,min=1,max=100"`
	ChildName    *string                   `json:"child_name" binding:"omitempty,max=50"`
	IconColorHex *string                   `json:"icon_color_hex" binding:"omitempty,hexcolor"`
	Worksheet    *GenerateWorksheetRequest `json:"worksheet" binding:"omitempty"`
}

// GenerateFromPresetRequest carries the output options when generating from
// a stored preset.
type GenerateFromPresetRequest struct {
	UseLaTeX bool   `json:"use_latex"`
	Lang     string `json:"lang" binding:"omitempty,oneof=en ko"`
}
