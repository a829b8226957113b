package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dalbom/arithmetic/internal/arithmetic"
)

const latexPreamble = `\documentclass[12pt,a4paper]{article}
\usepackage[utf8]{inputenc}
\usepackage[margin=2cm]{geometry}
\usepackage{multicol}
\usepackage{fancyhdr}
\usepackage{xcolor}
\usepackage{CJKutf8}

\pagestyle{fancy}
\fancyhf{}
\renewcommand{\headrulewidth}{0pt}
\renewcommand{\footrulewidth}{0pt}
\cfoot{\thepage}

\setlength{\parindent}{0pt}
\setlength{\columnsep}{2cm}

\begin{document}
\begin{CJK}{UTF8}{mj}

`

const latexClosing = `
\end{CJK}
\end{document}
`

// emPerDigit is the approximate width of one digit at the body font size.
const emPerDigit = 0.6

// LaTeX renders the worksheet as a two-column A4 LaTeX document. With
// opts.AnswerKey set it renders the answer key instead.
func LaTeX(w arithmetic.Worksheet, opts Options) string {
	lbl := labelsFor(opts.Lang)
	st := styleFor(w.Spec.TotalQuestionsPerPage())

	var b strings.Builder
	b.WriteString(latexPreamble)
	fmt.Fprintf(&b, "\\setcounter{page}{%d}\n\n", w.Spec.PageOffset)

	for i, page := range w.Pages {
		if opts.AnswerKey {
			fmt.Fprintf(&b, "\\noindent \\textbf{%s}\n\n", escapeLaTeX(lbl.AnswerKey))
		} else {
			writeLaTeXHeader(&b, w.Spec, lbl)
		}

		b.WriteString("\\begin{multicols}{2}\n")
		b.WriteString(st.latexSize + "\n\n")
		writeLaTeXProblems(&b, page.Problems, st, opts.AnswerKey)
		b.WriteString("\\end{multicols}\n\n")

		if opts.ShowBranding {
			b.WriteString("\\vfill\n\\begin{center}\n")
			fmt.Fprintf(&b, "\\footnotesize\\textcolor{gray}{%s}\n", escapeLaTeX(lbl.Branding))
			b.WriteString("\\end{center}\n\n")
		}

		if i < len(w.Pages)-1 {
			b.WriteString("\\newpage\n\n")
		}
	}

	b.WriteString(latexClosing)
	return b.String()
}

// AnswerKeyLaTeX is LaTeX with the answer key enabled.
func AnswerKeyLaTeX(w arithmetic.Worksheet, opts Options) string {
	opts.AnswerKey = true
	return LaTeX(w, opts)
}

func writeLaTeXHeader(b *strings.Builder, spec arithmetic.WorksheetSpec, lbl labels) {
	if spec.HasHeader() {
		var parts []string
		for _, s := range []string{spec.ChildName, spec.SchoolName} {
			if s != "" {
				parts = append(parts, escapeLaTeX(s))
			}
		}
		fmt.Fprintf(b, "\\noindent \\textbf{%s}\n\n", strings.Join(parts, ` \hfill `))
		b.WriteString("\\vspace{0.2cm}\n\n")
	}
	fmt.Fprintf(b, "\\noindent %s \\underline{\\hspace{5cm}}\n\n", escapeLaTeX(lbl.Date))
	b.WriteString("\\vspace{0.5cm}\n\n")
}

func writeLaTeXProblems(b *strings.Builder, problems []arithmetic.Problem, st style, answers bool) {
	numDigits, operandDigits := columnWidths(problems)

	for _, p := range problems {
		fmt.Fprintf(b, "\\noindent \\makebox[%sem][r]{%d}. ", emWidth(numDigits), p.Number)
		for i, n := range p.Operands {
			if i > 0 {
				b.WriteString(" " + latexOperator(p.Operation) + " ")
			}
			fmt.Fprintf(b, "\\makebox[%sem][r]{%d}", emWidth(operandDigits[i]), n)
		}
		if answers {
			fmt.Fprintf(b, " $=$ \\textbf{%d}\n\n", p.Answer())
		} else {
			b.WriteString(" $=$ \\underline{\\hspace{3cm}}\n\n")
		}
		fmt.Fprintf(b, "\\vspace{%s}\n\n", st.latexSpace)
	}
}

func emWidth(digits int) string {
	return strconv.FormatFloat(float64(digits)*emPerDigit, 'f', 1, 64)
}

func latexOperator(op arithmetic.Operation) string {
	switch op {
	case arithmetic.Addition:
		return "$+$"
	case arithmetic.Subtraction:
		return "$-$"
	case arithmetic.Multiplication:
		return `$\times$`
	case arithmetic.Division:
		return `$\div$`
	}
	return "$?$"
}

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`#`, `\#`,
	`$`, `\$`,
	`%`, `\%`,
	`&`, `\&`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// escapeLaTeX makes user-supplied text safe to embed in a document body.
func escapeLaTeX(s string) string {
	return latexEscaper.Replace(s)
}
