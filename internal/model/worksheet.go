package model

import (
	"fmt"
	"time"

	"github.com/dalbom/arithmetic/internal/arithmetic"
	"github.com/google/uuid"
)

// DocumentKind selects between the worksheet itself and its answer key.
type DocumentKind string

const (
	DocumentWorksheet DocumentKind = "worksheet"
	DocumentAnswerKey DocumentKind = "answer_key"
)

// DocumentFormat is the file format of a rendered document.
type DocumentFormat string

const (
	FormatPDF DocumentFormat = "pdf"
	FormatTeX DocumentFormat = "tex"
)

// ProblemSpecRequest is one problem type inside a generation request.
type ProblemSpecRequest struct {
	Type             string `json:"type" binding:"required,oneof=addition subtraction multiplication division"`
	OperandDigits    []int  `json:"operand_digits" binding:"required,min=2,max=5,dive,min=1,max=5"`
	QuestionsPerPage int    `json:"questions_per_page" binding:"required,min=1,max=50"`
	EasyMode         bool   `json:"easy_mode"`
	CarryControl     string `json:"carry_control" binding:"omitempty,carry_control"`
}

// ToSpec converts the request into a core problem spec.
func (r ProblemSpecRequest) ToSpec() arithmetic.ProblemSpec {
	cc := arithmetic.CarryControl(r.CarryControl)
	if cc == "" {
		cc = arithmetic.CarryNone
	}
	return arithmetic.ProblemSpec{
		Operation:        arithmetic.Operation(r.Type),
		OperandDigits:    append([]int(nil), r.OperandDigits...),
		QuestionsPerPage: r.QuestionsPerPage,
		EasyMode:         r.EasyMode,
		CarryControl:     cc,
	}
}

// GenerateWorksheetRequest is the payload for generating a worksheet.
type GenerateWorksheetRequest struct {
	Name             string               `json:"name" binding:"omitempty,max=100"`
	ChildName        string               `json:"child_name" binding:"omitempty,max=50"`
	SchoolName       string               `json:"school_name" binding:"omitempty,max=50"`
	NumberOfPages    int                  `json:"number_of_pages" binding:"required,min=1,max=100"`
	PageOffset       int                  `json:"page_offset" binding:"omitempty,min=1,max=9999"`
	Problems         []ProblemSpecRequest `json:"problems" binding:"required,min=1,max=4,dive"`
	IncludeAnswerKey bool                 `json:"include_answer_key"`
	UseLaTeX         bool                 `json:"use_latex"`
	Lang             string               `json:"lang" binding:"omitempty,oneof=en ko"`
}

// ToSpec converts the request into a core worksheet spec. A missing page
// offset starts numbering at 1.
func (r GenerateWorksheetRequest) ToSpec() arithmetic.WorksheetSpec {
	offset := r.PageOffset
	if offset == 0 {
		offset = 1
	}
	problems := make([]arithmetic.ProblemSpec, len(r.Problems))
	for i, p := range r.Problems {
		problems[i] = p.ToSpec()
	}
	return arithmetic.WorksheetSpec{
		Name:             r.Name,
		ChildName:        r.ChildName,
		SchoolName:       r.SchoolName,
		NumberOfPages:    r.NumberOfPages,
		PageOffset:       offset,
		Problems:         problems,
		IncludeAnswerKey: r.IncludeAnswerKey,
	}
}

// WorksheetRecord is a persisted history entry. The worksheet is not
// stored; Config and Seed reproduce it exactly.
type WorksheetRecord struct {
	ID             uuid.UUID                `json:"id"`
	UserID         int                      `json:"user_id"`
	Config         arithmetic.WorksheetSpec `json:"config"`
	Seed           uint64                   `json:"seed,string"`
	SequenceNumber int                      `json:"sequence_number"`
	UsedLaTeX      bool                     `json:"used_latex"`
	Lang           string                   `json:"lang"`
	CreatedAt      time.Time                `json:"created_at"`
}

// DisplayTitle names the record by day and sequence, e.g.
// "2026-10-16 worksheet #1".
func (r WorksheetRecord) DisplayTitle() string {
	return fmt.Sprintf("%s worksheet #%d", r.CreatedAt.Format(time.DateOnly), r.SequenceNumber)
}

// DocumentLink points at one downloadable rendering of a record.
type DocumentLink struct {
	Kind   DocumentKind   `json:"kind"`
	Format DocumentFormat `json:"format"`
	URL    string         `json:"url"`
}

// GenerateWorksheetResponse is returned after a worksheet is generated.
type GenerateWorksheetResponse struct {
	Record    WorksheetRecord      `json:"record"`
	Title     string               `json:"title"`
	Worksheet arithmetic.Worksheet `json:"worksheet"`
	Documents []DocumentLink       `json:"documents"`
	Fallbacks int                  `json:"fallbacks"`
	// LaTeXFallback is set when LaTeX compilation failed and the native
	// renderer produced the PDF instead.
	LaTeXFallback bool `json:"latex_fallback,omitempty"`
}

// PreviewRequest asks for one example problem per problem type.
type PreviewRequest struct {
	Problems []ProblemSpecRequest `json:"problems" binding:"required,min=1,max=4,dive"`
}

// PreviewProblem is a single example problem.
type PreviewProblem struct {
	Display string `json:"display"`
	Answer  int    `json:"answer"`
}
