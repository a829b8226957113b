// Package entitlement decides which worksheet features a plan may use.
package entitlement

import (
	"math"
	"slices"

	"github.com/dalbom/arithmetic/internal/arithmetic"
)

// Feature is a capability reserved for the pro plan.
type Feature string

const (
	Multiplication   Feature = "multiplication"
	Division         Feature = "division"
	ExtendedDigits   Feature = "extendedDigits"
	MultipleOperands Feature = "multipleOperands"
	ExtendedPages    Feature = "extendedPages"
	UnlimitedPresets Feature = "unlimitedPresets"
	CarryControl     Feature = "carryControl"
	AnswerKey        Feature = "answerKey"
	CustomHeader     Feature = "customHeader"
	LaTeXPDF         Feature = "latexPDF"
	NoBranding       Feature = "noBranding"
)

// Limits are the numeric caps of a plan.
type Limits struct {
	MaxDigits   int `json:"max_digits"`
	MaxOperands int `json:"max_operands"`
	MaxPages    int `json:"max_pages"`
	MaxPresets  int `json:"max_presets"`
}

var (
	freeLimits = Limits{MaxDigits: 2, MaxOperands: 2, MaxPages: 3, MaxPresets: 2}
	proLimits  = Limits{MaxDigits: 5, MaxOperands: 5, MaxPages: 100, MaxPresets: math.MaxInt}
)

// Plan is the subscription a request is served under.
type Plan struct {
	Pro bool
}

// Limits returns the caps of p.
func (p Plan) Limits() Limits {
	if p.Pro {
		return proLimits
	}
	return freeLimits
}

// ShowBranding reports whether rendered documents carry the credit footer.
func (p Plan) ShowBranding() bool {
	return !p.Pro
}

// Request carries the output options of a generation request.
type Request struct {
	LaTeX bool
}

// MaxLimits are the structural caps that apply to every plan.
func MaxLimits() Limits {
	return proLimits
}

// Required lists the pro features spec and req use, in a stable order.
func Required(spec arithmetic.WorksheetSpec, req Request) []Feature {
	var out []Feature
	add := func(f Feature) {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}

	for _, ps := range spec.Problems {
		switch ps.Operation {
		case arithmetic.Multiplication:
			add(Multiplication)
		case arithmetic.Division:
			add(Division)
		}
		if ps.OperandCount() > freeLimits.MaxOperands {
			add(MultipleOperands)
		}
		for _, d := range ps.OperandDigits {
			if d > freeLimits.MaxDigits {
				add(ExtendedDigits)
				break
			}
		}
		if ps.CarryControl != "" && ps.CarryControl != arithmetic.CarryNone {
			add(CarryControl)
		}
	}
	if spec.NumberOfPages > freeLimits.MaxPages {
		add(ExtendedPages)
	}
	if spec.IncludeAnswerKey {
		add(AnswerKey)
	}
	if spec.HasHeader() {
		add(CustomHeader)
	}
	if req.LaTeX {
		add(LaTeXPDF)
	}

	slices.SortStableFunc(out, func(a, b Feature) int {
		return slices.Index(allFeatures, a) - slices.Index(allFeatures, b)
	})
	return out
}

var allFeatures = []Feature{
	Multiplication, Division, ExtendedDigits, MultipleOperands, ExtendedPages,
	UnlimitedPresets, CarryControl, AnswerKey, CustomHeader, LaTeXPDF, NoBranding,
}

// Check returns the pro features spec and req need that plan lacks. An
// empty result means the request is allowed.
func Check(plan Plan, spec arithmetic.WorksheetSpec, req Request) []Feature {
	if plan.Pro {
		return nil
	}
	return Required(spec, req)
}

// CanCreatePreset reports whether a user with existing presets may add one.
func CanCreatePreset(plan Plan, existing int) bool {
	return existing < plan.Limits().MaxPresets
}

// MaxPresets returns how many presets plan may store.
func MaxPresets(plan Plan) int {
	return plan.Limits().MaxPresets
}
