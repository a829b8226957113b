package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/dalbom/arithmetic/internal/arithmetic"
)

// A4 layout in points.
const (
	pageWidth     = 595.28
	pageHeight    = 841.89
	margin        = 56.69
	columnGap     = 56.69
	headerHeight  = 40.0
	contentWidth  = pageWidth - 2*margin
	columnWidth   = (contentWidth - columnGap) / 2
	problemTop    = margin + headerHeight + 14
	footerY       = pageHeight - margin + 20
	dateLineWidth = 141.73
	answerLine    = 85.0
	headerGap     = 22.0
)

const (
	textFont   = "Helvetica"
	numberFont = "Courier"
)

// PDF renders the worksheet natively, one A4 page per worksheet page, with
// problems split into two columns (left column gets the extra problem).
//
// Core fonts only carry Latin-1, so printed labels are always English.
func PDF(w arithmetic.Worksheet, opts Options) ([]byte, error) {
	lbl := labelsFor("en")
	st := styleFor(w.Spec.TotalQuestionsPerPage())

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("arithmetic", false)
	pdf.SetTitle(Title(w), true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range w.Pages {
		pdf.AddPage()
		drawHeader(pdf, tr, w.Spec, st, lbl, opts.AnswerKey)
		drawProblems(pdf, tr, page.Problems, st, opts.AnswerKey)
		drawFooter(pdf, tr, page.Number, opts.ShowBranding, lbl)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawHeader(pdf *fpdf.Fpdf, tr func(string) string, spec arithmetic.WorksheetSpec, st style, lbl labels, answerKey bool) {
	y := margin
	pdf.SetTextColor(0, 0, 0)

	if answerKey {
		pdf.SetFont(textFont, "B", st.fontSize)
		pdf.Text(margin, y+st.fontSize, tr(lbl.AnswerKey))
		return
	}

	if spec.HasHeader() {
		var parts []string
		for _, s := range []string{spec.ChildName, spec.SchoolName} {
			if s != "" {
				parts = append(parts, s)
			}
		}
		pdf.SetFont(textFont, "B", st.fontSize)
		pdf.Text(margin, y+st.fontSize, tr(strings.Join(parts, "  |  ")))
		y += headerGap
	}

	pdf.SetFont(textFont, "", st.fontSize)
	label := tr(lbl.Date)
	pdf.Text(margin, y+st.fontSize, label)

	startX := margin + pdf.GetStringWidth(label) + 5
	lineY := y + st.fontSize + 2
	pdf.SetLineWidth(0.5)
	pdf.SetDrawColor(0, 0, 0)
	pdf.Line(startX, lineY, startX+dateLineWidth, lineY)
}

func drawProblems(pdf *fpdf.Fpdf, tr func(string) string, problems []arithmetic.Problem, st style, answerKey bool) {
	pdf.SetFont(numberFont, "", st.fontSize)
	pdf.SetTextColor(0, 0, 0)

	half := (len(problems) + 1) / 2
	rowHeight := st.fontSize + st.lineSpacing

	digitWidth := pdf.GetStringWidth("0")
	dotWidth := pdf.GetStringWidth(". ")
	equals := " = "
	equalsWidth := pdf.GetStringWidth(equals)

	numDigits, operandDigits := columnWidths(problems)
	opWidth := 0.0
	for _, p := range problems {
		opWidth = max(opWidth, pdf.GetStringWidth(tr(" "+p.Operation.Symbol()+" ")))
	}

	for i, p := range problems {
		x := margin
		row := i
		if i >= half {
			x += columnWidth + columnGap
			row = i - half
		}
		baseline := problemTop + float64(row)*rowHeight + st.fontSize

		x = drawRightAligned(pdf, strconv.Itoa(p.Number), x, float64(numDigits)*digitWidth, baseline)
		pdf.Text(x, baseline, ". ")
		x += dotWidth

		for j, n := range p.Operands {
			if j > 0 {
				sym := tr(" " + p.Operation.Symbol() + " ")
				pad := (opWidth - pdf.GetStringWidth(sym)) / 2
				pdf.Text(x+pad, baseline, sym)
				x += opWidth
			}
			x = drawRightAligned(pdf, strconv.Itoa(n), x, float64(operandDigits[j])*digitWidth, baseline)
		}
		for j := len(p.Operands); j < len(operandDigits); j++ {
			x += opWidth + float64(operandDigits[j])*digitWidth
		}

		pdf.Text(x, baseline, equals)
		x += equalsWidth

		if answerKey {
			pdf.Text(x, baseline, strconv.Itoa(p.Answer()))
			continue
		}
		pdf.SetLineWidth(0.5)
		pdf.Line(x, baseline+2, x+answerLine, baseline+2)
	}
}

// drawRightAligned prints s right-aligned in a field of width starting at x
// and returns the x just past the field.
func drawRightAligned(pdf *fpdf.Fpdf, s string, x, width, baseline float64) float64 {
	pdf.Text(x+width-pdf.GetStringWidth(s), baseline, s)
	return x + width
}

func drawFooter(pdf *fpdf.Fpdf, tr func(string) string, number int, branding bool, lbl labels) {
	pdf.SetFont(textFont, "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(margin, footerY)
	pdf.CellFormat(contentWidth, 14, strconv.Itoa(number), "", 0, "C", false, 0, "")

	if !branding {
		return
	}
	pdf.SetFont(textFont, "", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.SetXY(margin, footerY+14)
	pdf.CellFormat(contentWidth, 12, tr(lbl.Branding), "", 0, "C", false, 0, "")
}
