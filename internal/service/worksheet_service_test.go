package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/dalbom/arithmetic/internal/arithmetic"
	"github.com/dalbom/arithmetic/internal/config"
	"github.com/dalbom/arithmetic/internal/entitlement"
	"github.com/rs/zerolog"
)

type fakeCompiler struct {
	calls atomic.Int32
	err   error
}

func (f *fakeCompiler) Compile(_ context.Context, tex string) ([]byte, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-latex " + tex[:10]), nil
}

func newTestWorksheetService(c Compiler) *WorksheetService {
	cfg := &config.Config{DefaultLang: "en"}
	s := NewWorksheetService(cfg, nil, nil, c, zerolog.New(io.Discard))
	s.newSeed = func() (uint64, error) { return 1234, nil }
	return s
}

func freeSpec() arithmetic.WorksheetSpec {
	return arithmetic.WorksheetSpec{
		NumberOfPages: 2,
		PageOffset:    1,
		Problems: []arithmetic.ProblemSpec{
			{Operation: arithmetic.Addition, OperandDigits: []int{2, 2}, QuestionsPerPage: 10},
		},
	}
}

func TestWorksheetService_BuildFreePlan(t *testing.T) {
	s := newTestWorksheetService(nil)

	built, err := s.Build(context.Background(), entitlement.Plan{}, freeSpec(), GenerateOptions{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := len(built.Worksheet.Pages); got != 2 {
		t.Errorf("pages = %d, want 2", got)
	}
	if built.Worksheet.Seed != 1234 {
		t.Errorf("Seed = %d, want 1234", built.Worksheet.Seed)
	}
	if !bytes.HasPrefix(built.Documents.WorksheetPDF, []byte("%PDF-")) {
		t.Error("worksheet PDF missing")
	}
	if !strings.Contains(built.Documents.WorksheetTeX, "Made with MathBloom") {
		t.Error("free plan LaTeX should carry branding")
	}
	if built.Documents.AnswerKeyPDF != nil {
		t.Error("answer key rendered without being requested")
	}
}

func TestWorksheetService_BuildIsReproducible(t *testing.T) {
	s := newTestWorksheetService(nil)
	a, err := s.Build(context.Background(), entitlement.Plan{}, freeSpec(), GenerateOptions{})
	if err != nil {
		t.Fatal(err)
	}
	replay := arithmetic.NewGenerator(a.Worksheet.Seed).GenerateWorksheet(a.Worksheet.Spec)
	if !reflect.DeepEqual(a.Worksheet, replay) {
		t.Error("worksheet cannot be reproduced from its spec and seed")
	}
}

func TestWorksheetService_BuildRequiresPro(t *testing.T) {
	s := newTestWorksheetService(nil)
	spec := freeSpec()
	spec.Problems[0].Operation = arithmetic.Division
	spec.IncludeAnswerKey = true

	_, err := s.Build(context.Background(), entitlement.Plan{}, spec, GenerateOptions{})
	if !errors.Is(err, ErrProRequired) {
		t.Fatalf("Build() error = %v, want ErrProRequired", err)
	}
	var pre *ProRequiredError
	if !errors.As(err, &pre) {
		t.Fatalf("Build() error type = %T", err)
	}
	want := []entitlement.Feature{entitlement.Division, entitlement.AnswerKey}
	if !reflect.DeepEqual(pre.Features, want) {
		t.Errorf("Features = %v, want %v", pre.Features, want)
	}
}

func TestWorksheetService_BuildRejectsInvalid(t *testing.T) {
	s := newTestWorksheetService(nil)
	spec := freeSpec()
	spec.Problems[0].QuestionsPerPage = 51

	_, err := s.Build(context.Background(), entitlement.Plan{Pro: true}, spec, GenerateOptions{})
	if !errors.Is(err, ErrInvalidWorksheet) {
		t.Errorf("Build() error = %v, want ErrInvalidWorksheet", err)
	}
}

func TestWorksheetService_LaTeXAndAnswerKey(t *testing.T) {
	c := &fakeCompiler{}
	s := newTestWorksheetService(c)
	spec := freeSpec()
	spec.IncludeAnswerKey = true

	built, err := s.Build(context.Background(), entitlement.Plan{Pro: true}, spec, GenerateOptions{UseLaTeX: true})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := c.calls.Load(); got != 2 {
		t.Errorf("compiler calls = %d, want 2", got)
	}
	if !bytes.HasPrefix(built.Documents.WorksheetPDF, []byte("%PDF-latex")) {
		t.Error("worksheet PDF should come from the compiler")
	}
	if !bytes.HasPrefix(built.Documents.AnswerKeyPDF, []byte("%PDF-latex")) {
		t.Error("answer key PDF should come from the compiler")
	}
	if built.Documents.LaTeXFallback {
		t.Error("LaTeXFallback set without a failure")
	}
	if strings.Contains(built.Documents.WorksheetTeX, "MathBloom") {
		t.Error("pro plan LaTeX should not carry branding")
	}
}

func TestWorksheetService_LaTeXFallback(t *testing.T) {
	s := newTestWorksheetService(&fakeCompiler{err: errors.New("texlive down")})

	built, err := s.Build(context.Background(), entitlement.Plan{Pro: true}, freeSpec(), GenerateOptions{UseLaTeX: true})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !built.Documents.LaTeXFallback {
		t.Error("LaTeXFallback not reported")
	}
	if !bytes.HasPrefix(built.Documents.WorksheetPDF, []byte("%PDF-")) {
		t.Error("native PDF missing after fallback")
	}
}

func TestWorksheetService_Preview(t *testing.T) {
	s := newTestWorksheetService(nil)
	problems := []arithmetic.ProblemSpec{
		{Operation: arithmetic.Addition, OperandDigits: []int{1, 1}, QuestionsPerPage: 3},
		{Operation: arithmetic.Division, OperandDigits: []int{2, 1}, QuestionsPerPage: 3, EasyMode: true},
	}
	out, err := s.Preview(problems)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("Preview() returned %d problems, want 2", len(out))
	}
	if !strings.Contains(out[0].Display, " + ") || !strings.Contains(out[1].Display, " ÷ ") {
		t.Errorf("Preview() = %+v", out)
	}
}

func TestWorksheetService_Stream(t *testing.T) {
	s := newTestWorksheetService(nil)
	spec := freeSpec()
	spec.PageOffset = 4

	var numbers []int
	res, err := s.Stream(context.Background(), entitlement.Plan{}, spec, func(p arithmetic.Page) error {
		numbers = append(numbers, p.Number)
		return nil
	})
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if !reflect.DeepEqual(numbers, []int{4, 5}) {
		t.Errorf("page numbers = %v, want [4 5]", numbers)
	}
	if res.Pages != 2 || res.Seed != 1234 {
		t.Errorf("Stream() = %+v", res)
	}

	stop := errors.New("client gone")
	res, err = s.Stream(context.Background(), entitlement.Plan{}, spec, func(arithmetic.Page) error { return stop })
	if !errors.Is(err, stop) || res.Pages != 0 {
		t.Errorf("Stream() = %+v, %v; want emit error after 0 pages", res, err)
	}
}
