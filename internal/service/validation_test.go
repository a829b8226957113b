package service

import (
	"errors"
	"testing"

	"github.com/dalbom/arithmetic/internal/arithmetic"
)

func TestValidateSpec(t *testing.T) {
	valid := func() arithmetic.WorksheetSpec {
		return arithmetic.WorksheetSpec{
			NumberOfPages: 1,
			PageOffset:    1,
			Problems: []arithmetic.ProblemSpec{
				{Operation: arithmetic.Addition, OperandDigits: []int{1, 1}, QuestionsPerPage: 10},
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(*arithmetic.WorksheetSpec)
		ok     bool
	}{
		{"valid", func(*arithmetic.WorksheetSpec) {}, true},
		{"fifty questions", func(s *arithmetic.WorksheetSpec) { s.Problems[0].QuestionsPerPage = 50 }, true},
		{"no problem types", func(s *arithmetic.WorksheetSpec) { s.Problems = nil }, false},
		{"too many questions", func(s *arithmetic.WorksheetSpec) { s.Problems[0].QuestionsPerPage = 51 }, false},
		{"zero questions", func(s *arithmetic.WorksheetSpec) { s.Problems[0].QuestionsPerPage = 0 }, false},
		{"zero pages", func(s *arithmetic.WorksheetSpec) { s.NumberOfPages = 0 }, false},
		{"zero offset", func(s *arithmetic.WorksheetSpec) { s.PageOffset = 0 }, false},
		{"one operand", func(s *arithmetic.WorksheetSpec) { s.Problems[0].OperandDigits = []int{1} }, false},
		{"six operands", func(s *arithmetic.WorksheetSpec) { s.Problems[0].OperandDigits = []int{1, 1, 1, 1, 1, 1} }, false},
		{"zero width", func(s *arithmetic.WorksheetSpec) { s.Problems[0].OperandDigits = []int{0, 1} }, false},
		{"unknown op", func(s *arithmetic.WorksheetSpec) { s.Problems[0].Operation = "modulo" }, false},
		{"wide easy division", func(s *arithmetic.WorksheetSpec) {
			s.Problems[0] = arithmetic.ProblemSpec{Operation: arithmetic.Division, OperandDigits: []int{5, 5, 5, 5}, QuestionsPerPage: 5, EasyMode: true}
		}, false},
		{"wide multiplication", func(s *arithmetic.WorksheetSpec) {
			s.Problems[0] = arithmetic.ProblemSpec{Operation: arithmetic.Multiplication, OperandDigits: []int{5, 5, 5, 5, 5}, QuestionsPerPage: 5}
		}, false},
		{"widest fitting multiplication", func(s *arithmetic.WorksheetSpec) {
			s.Problems[0] = arithmetic.ProblemSpec{Operation: arithmetic.Multiplication, OperandDigits: []int{5, 5, 4, 4}, QuestionsPerPage: 5}
		}, true},
		{"wide plain division", func(s *arithmetic.WorksheetSpec) {
			s.Problems[0] = arithmetic.ProblemSpec{Operation: arithmetic.Division, OperandDigits: []int{5, 5, 5, 5, 5}, QuestionsPerPage: 5}
		}, true},
		{"wide addition", func(s *arithmetic.WorksheetSpec) { s.Problems[0].OperandDigits = []int{5, 5, 5, 5, 5} }, true},
		{"unknown carry", func(s *arithmetic.WorksheetSpec) { s.Problems[0].CarryControl = "maybe" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := valid()
			tt.mutate(&spec)
			err := ValidateSpec(spec)
			if tt.ok && err != nil {
				t.Errorf("ValidateSpec() error = %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidWorksheet) {
				t.Errorf("ValidateSpec() error = %v, want ErrInvalidWorksheet", err)
			}
		})
	}
}
