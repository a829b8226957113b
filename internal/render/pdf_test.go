package render

import (
	"bytes"
	"testing"

	"github.com/dalbom/arithmetic/internal/arithmetic"
)

func TestPDF_Output(t *testing.T) {
	out, err := PDF(sampleWorksheet(), Options{ShowBranding: true})
	if err != nil {
		t.Fatalf("PDF() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("PDF() output does not start with a PDF header")
	}
	if !bytes.Contains(out, []byte("/Count 2")) {
		t.Errorf("PDF() should contain 2 pages")
	}
}

func TestPDF_AllOperationsAndAnswerKey(t *testing.T) {
	g := arithmetic.NewGenerator(7)
	spec := arithmetic.WorksheetSpec{
		ChildName:     "Mina",
		NumberOfPages: 3,
		PageOffset:    1,
		Problems: []arithmetic.ProblemSpec{
			{Operation: arithmetic.Addition, OperandDigits: []int{2, 2, 1}, QuestionsPerPage: 10},
			{Operation: arithmetic.Subtraction, OperandDigits: []int{3, 2}, QuestionsPerPage: 10},
			{Operation: arithmetic.Multiplication, OperandDigits: []int{2, 1}, QuestionsPerPage: 10},
			{Operation: arithmetic.Division, OperandDigits: []int{2, 1}, QuestionsPerPage: 15, EasyMode: true},
		},
	}
	w := g.GenerateWorksheet(spec)

	for _, answerKey := range []bool{false, true} {
		out, err := PDF(w, Options{AnswerKey: answerKey})
		if err != nil {
			t.Fatalf("PDF(answerKey=%v) error = %v", answerKey, err)
		}
		if !bytes.HasPrefix(out, []byte("%PDF-")) {
			t.Errorf("PDF(answerKey=%v) output is not a PDF", answerKey)
		}
	}
}
