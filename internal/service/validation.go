package service

import (
	"fmt"

	"github.com/dalbom/arithmetic/internal/arithmetic"
	"github.com/dalbom/arithmetic/internal/entitlement"
)

// Structural bounds that hold for every plan.
const (
	MinQuestionsPerPage = 1
	MaxQuestionsPerPage = 50
	MinOperands         = 2
)

// MaxResultDigits caps the summed operand widths of multiplication and easy
// division, whose results grow with every operand.
const MaxResultDigits = 18

// ValidateSpec checks the structural rules of a worksheet spec. It does not
// consider the user's plan; see entitlement.Check for that.
func ValidateSpec(spec arithmetic.WorksheetSpec) error {
	limits := entitlement.MaxLimits()

	if len(spec.Problems) == 0 {
		return fmt.Errorf("%w: at least one problem type is required", ErrInvalidWorksheet)
	}
	total := spec.TotalQuestionsPerPage()
	if total > MaxQuestionsPerPage {
		return fmt.Errorf("%w: %d questions per page exceeds %d", ErrInvalidWorksheet, total, MaxQuestionsPerPage)
	}
	if total < MinQuestionsPerPage {
		return fmt.Errorf("%w: at least one question per page is required", ErrInvalidWorksheet)
	}
	if spec.NumberOfPages < 1 || spec.NumberOfPages > limits.MaxPages {
		return fmt.Errorf("%w: page count must be between 1 and %d", ErrInvalidWorksheet, limits.MaxPages)
	}
	if spec.PageOffset < 1 {
		return fmt.Errorf("%w: page offset must be at least 1", ErrInvalidWorksheet)
	}

	for i, ps := range spec.Problems {
		if !ps.Operation.Valid() {
			return fmt.Errorf("%w: problem %d: unknown operation %q", ErrInvalidWorksheet, i, ps.Operation)
		}
		if !ps.CarryControl.Valid() {
			return fmt.Errorf("%w: problem %d: unknown carry control %q", ErrInvalidWorksheet, i, ps.CarryControl)
		}
		if n := ps.OperandCount(); n < MinOperands || n > limits.MaxOperands {
			return fmt.Errorf("%w: problem %d: operand count must be between %d and %d", ErrInvalidWorksheet, i, MinOperands, limits.MaxOperands)
		}
		for _, d := range ps.OperandDigits {
			if d < 1 || d > limits.MaxDigits {
				return fmt.Errorf("%w: problem %d: digit width must be between 1 and %d", ErrInvalidWorksheet, i, limits.MaxDigits)
			}
		}
		if !ps.ResultFits() {
			return fmt.Errorf("%w: problem %d: %s operands together may not exceed %d digits", ErrInvalidWorksheet, i, ps.Operation, MaxResultDigits)
		}
		if ps.QuestionsPerPage < 0 {
			return fmt.Errorf("%w: problem %d: negative question count", ErrInvalidWorksheet, i)
		}
	}
	return nil
}

// Authorize validates spec and checks it against plan.
func Authorize(plan entitlement.Plan, spec arithmetic.WorksheetSpec, req entitlement.Request) error {
	if err := ValidateSpec(spec); err != nil {
		return err
	}
	if missing := entitlement.Check(plan, spec, req); len(missing) > 0 {
		return &ProRequiredError{Features: missing}
	}
	return nil
}
