package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dalbom/arithmetic/internal/entitlement"
)

// Worksheet and preset errors.
var (
	ErrInvalidWorksheet    = errors.New("invalid worksheet")
	ErrProRequired         = errors.New("pro plan required")
	ErrPresetLimitReached  = errors.New("preset limit reached")
	ErrPresetNotFound      = errors.New("preset not found")
	ErrWorksheetNotFound   = errors.New("worksheet not found")
	ErrDocumentUnavailable = errors.New("document not available")
)

// ProRequiredError lists the pro features a request needs.
type ProRequiredError struct {
	Features []entitlement.Feature
}

func (e *ProRequiredError) Error() string {
	names := make([]string, len(e.Features))
	for i, f := range e.Features {
		names[i] = string(f)
	}
	return fmt.Sprintf("%s: %s", ErrProRequired, strings.Join(names, ", "))
}

// Is lets errors.Is match ErrProRequired.
func (e *ProRequiredError) Is(target error) bool {
	return target == ErrProRequired
}
