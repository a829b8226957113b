package arithmetic

import "strconv"

// WorksheetSpec is a complete generation request.
type WorksheetSpec struct {
	Name             string        `json:"name"`
	ChildName        string        `json:"child_name"`
	SchoolName       string        `json:"school_name"`
	NumberOfPages    int           `json:"number_of_pages"`
	PageOffset       int           `json:"page_offset"`
	Problems         []ProblemSpec `json:"problems"`
	IncludeAnswerKey bool          `json:"include_answer_key"`
}

// TotalQuestionsPerPage sums the per-page counts of every problem spec.
func (s WorksheetSpec) TotalQuestionsPerPage() int {
	total := 0
	for _, p := range s.Problems {
		total += p.QuestionsPerPage
	}
	return total
}

// HasHeader reports whether a child or school name is printed on each page.
func (s WorksheetSpec) HasHeader() bool {
	return s.ChildName != "" || s.SchoolName != ""
}

// Page is one printed page: its number and its problems in print order.
type Page struct {
	Number   int       `json:"page_number"`
	Problems []Problem `json:"problems"`
	// Fallbacks counts problems that exhausted the retry budget.
	Fallbacks int `json:"fallbacks"`
}

// Worksheet is the generated result for a WorksheetSpec. Seed reproduces it.
type Worksheet struct {
	Pages []Page        `json:"pages"`
	Spec  WorksheetSpec `json:"config"`
	Seed  uint64        `json:"seed,string"`
}

// Fallbacks returns the number of fallback problems across all pages.
func (w Worksheet) Fallbacks() int {
	total := 0
	for _, p := range w.Pages {
		total += p.Fallbacks
	}
	return total
}

// GenerateWorksheet builds every page of spec. Page numbers run from
// spec.PageOffset upwards; each page is generated independently.
func (g *Generator) GenerateWorksheet(spec WorksheetSpec) Worksheet {
	pages := make([]Page, 0, max(spec.NumberOfPages, 0))
	for i := 0; i < spec.NumberOfPages; i++ {
		pages = append(pages, g.GeneratePage(spec, i))
	}
	return Worksheet{Pages: pages, Spec: spec, Seed: g.seed}
}

// GeneratePage builds the page at index: each problem spec is repeated by
// its per-page count, the combined list is shuffled, and problems are
// numbered from 1 in shuffled order.
func (g *Generator) GeneratePage(spec WorksheetSpec, index int) Page {
	expanded := make([]ProblemSpec, 0, spec.TotalQuestionsPerPage())
	for _, ps := range spec.Problems {
		for n := 0; n < ps.QuestionsPerPage; n++ {
			expanded = append(expanded, ps)
		}
	}
	g.rng.Shuffle(len(expanded), func(i, j int) {
		expanded[i], expanded[j] = expanded[j], expanded[i]
	})

	page := Page{
		Number:   spec.PageOffset + index,
		Problems: make([]Problem, 0, len(expanded)),
	}
	for i, ps := range expanded {
		res := g.Generate(ps, i+1)
		if res.Outcome == OutcomeFallback {
			page.Fallbacks++
		}
		page.Problems = append(page.Problems, res.Problem)
	}
	return page
}

// AnswerKey returns, per page, one "<number>. <problem = answer>" line per
// problem in print order.
func AnswerKey(w Worksheet) [][]string {
	key := make([][]string, len(w.Pages))
	for i, page := range w.Pages {
		lines := make([]string, len(page.Problems))
		for j, p := range page.Problems {
			lines[j] = strconv.Itoa(p.Number) + ". " + p.AnswerDisplayString()
		}
		key[i] = lines
	}
	return key
}
