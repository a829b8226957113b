// Package render turns generated worksheets into printable documents:
// LaTeX source for remote compilation and native PDF files.
//
// Renderers read problems, numbering and page order exactly as generated and
// never reorder them.
package render

import (
	"strings"

	"github.com/dalbom/arithmetic/internal/arithmetic"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Options controls presentation details that are not part of the worksheet.
type Options struct {
	// Lang selects printed labels ("en", "ko", or any BCP 47 tag).
	Lang string
	// ShowBranding prints the footer credit line on every page.
	ShowBranding bool
	// AnswerKey prints answers instead of blanks.
	AnswerKey bool
}

type labels struct {
	Date      string
	AnswerKey string
	Branding  string
	Worksheet string
}

var (
	supportedLangs = []language.Tag{language.English, language.Korean}
	langMatcher    = language.NewMatcher(supportedLangs)

	labelSets = []labels{
		{Date: "Date:", AnswerKey: "Answer Key", Branding: "Made with MathBloom", Worksheet: "Worksheet"},
		{Date: "날짜:", AnswerKey: "정답", Branding: "산수해봄으로 만들었어요", Worksheet: "문제지"},
	}
)

// labelsFor picks the label set closest to lang, defaulting to English.
func labelsFor(lang string) labels {
	_, idx := language.MatchStrings(langMatcher, lang)
	return labelSets[idx]
}

// style is the size tier chosen from the number of problems per page.
type style struct {
	latexSize   string
	latexSpace  string
	fontSize    float64
	lineSpacing float64
}

func styleFor(questionsPerPage int) style {
	switch {
	case questionsPerPage <= 20:
		return style{latexSize: `\Large`, latexSpace: "0.8cm", fontSize: 16, lineSpacing: 22.68}
	case questionsPerPage <= 30:
		return style{latexSize: `\large`, latexSpace: "0.5cm", fontSize: 14, lineSpacing: 14.17}
	case questionsPerPage <= 40:
		return style{latexSize: `\normalsize`, latexSpace: "0.3cm", fontSize: 12, lineSpacing: 8.50}
	default:
		return style{latexSize: `\small`, latexSpace: "0.2cm", fontSize: 10, lineSpacing: 5.67}
	}
}

// Title names a worksheet: its configured name, or its operations joined,
// e.g. "Addition & Division Worksheet".
func Title(w arithmetic.Worksheet) string {
	if w.Spec.Name != "" {
		return w.Spec.Name
	}

	caser := cases.Title(language.English)
	seen := make(map[arithmetic.Operation]bool)
	var names []string
	for _, p := range w.Spec.Problems {
		if seen[p.Operation] {
			continue
		}
		seen[p.Operation] = true
		names = append(names, caser.String(string(p.Operation)))
	}
	if len(names) == 0 {
		return "Worksheet"
	}
	return strings.Join(names, " & ") + " Worksheet"
}

// columnWidths returns, for one page, the widest problem number in digits
// and the widest operand in digits at each operand position.
func columnWidths(problems []arithmetic.Problem) (numDigits int, operandDigits []int) {
	numDigits = 1
	for _, p := range problems {
		numDigits = max(numDigits, arithmetic.DigitCount(p.Number))
		for len(operandDigits) < len(p.Operands) {
			operandDigits = append(operandDigits, 0)
		}
		for i, n := range p.Operands {
			operandDigits[i] = max(operandDigits[i], arithmetic.DigitCount(n))
		}
	}
	return numDigits, operandDigits
}
