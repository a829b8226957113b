package arithmetic

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestGenerateWorksheet_PagesAndNumbering(t *testing.T) {
	spec := WorksheetSpec{
		NumberOfPages: 4,
		PageOffset:    7,
		Problems: []ProblemSpec{
			{Operation: Addition, OperandDigits: []int{2, 2}, QuestionsPerPage: 6},
			{Operation: Division, OperandDigits: []int{2, 1}, QuestionsPerPage: 5, EasyMode: true},
			{Operation: Multiplication, OperandDigits: []int{1, 1, 1}, QuestionsPerPage: 3},
		},
	}

	w := NewGenerator(42).GenerateWorksheet(spec)

	if len(w.Pages) != spec.NumberOfPages {
		t.Fatalf("got %d pages, want %d", len(w.Pages), spec.NumberOfPages)
	}
	for i, page := range w.Pages {
		if page.Number != spec.PageOffset+i {
			t.Errorf("page %d number = %d, want %d", i, page.Number, spec.PageOffset+i)
		}
		if len(page.Problems) != spec.TotalQuestionsPerPage() {
			t.Fatalf("page %d has %d problems, want %d", i, len(page.Problems), spec.TotalQuestionsPerPage())
		}

		counts := make(map[Operation]int)
		for j, p := range page.Problems {
			if p.Number != j+1 {
				t.Errorf("page %d problem %d numbered %d", i, j, p.Number)
			}
			counts[p.Operation]++
		}
		for _, ps := range spec.Problems {
			if counts[ps.Operation] != ps.QuestionsPerPage {
				t.Errorf("page %d has %d %s problems, want %d", i, counts[ps.Operation], ps.Operation, ps.QuestionsPerPage)
			}
		}
	}
	if !reflect.DeepEqual(w.Spec, spec) {
		t.Errorf("worksheet spec = %+v, want %+v", w.Spec, spec)
	}
	if w.Seed != 42 {
		t.Errorf("Seed = %d, want 42", w.Seed)
	}
}

func TestWorksheet_SeedEncodesAsString(t *testing.T) {
	w := Worksheet{Seed: 18446744073709551615}
	raw, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"seed":"18446744073709551615"`) {
		t.Errorf("encoded worksheet = %s, want the seed as a JSON string", raw)
	}

	var back Worksheet
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Seed != w.Seed {
		t.Errorf("round-tripped seed = %d, want %d", back.Seed, w.Seed)
	}
}

func TestGenerateWorksheet_AdditionPreventCarryScenario(t *testing.T) {
	spec := WorksheetSpec{
		NumberOfPages: 1,
		PageOffset:    1,
		Problems: []ProblemSpec{
			{Operation: Addition, OperandDigits: []int{1, 1}, QuestionsPerPage: 10, CarryControl: CarryPrevent},
		},
	}

	w := NewGenerator(2024).GenerateWorksheet(spec)
	page := w.Pages[0]
	if page.Number != 1 {
		t.Fatalf("page number = %d, want 1", page.Number)
	}
	if len(page.Problems) != 10 {
		t.Fatalf("got %d problems, want 10", len(page.Problems))
	}

	carried := 0
	for i, p := range page.Problems {
		if p.Number != i+1 {
			t.Errorf("problem %d numbered %d", i, p.Number)
		}
		if len(p.Operands) != 2 || DigitCount(p.Operands[0]) != 1 || DigitCount(p.Operands[1]) != 1 {
			t.Errorf("problem %d operands %v, want two one-digit numbers", i, p.Operands)
		}
		if p.Operands[0]+p.Operands[1] >= 10 {
			carried++
		}
	}
	// A carrying problem can only come from the fallback path, which the
	// page reports.
	if carried > page.Fallbacks {
		t.Errorf("%d problems carry but only %d fallbacks reported", carried, page.Fallbacks)
	}
}

func TestGenerateWorksheet_ZeroPages(t *testing.T) {
	w := NewGenerator(1).GenerateWorksheet(WorksheetSpec{
		Problems: []ProblemSpec{{Operation: Addition, OperandDigits: []int{1, 1}, QuestionsPerPage: 3}},
	})
	if len(w.Pages) != 0 {
		t.Errorf("got %d pages, want 0", len(w.Pages))
	}
}

func TestGenerateWorksheet_SameSeedSameWorksheet(t *testing.T) {
	spec := WorksheetSpec{
		NumberOfPages: 3,
		PageOffset:    1,
		Problems: []ProblemSpec{
			{Operation: Subtraction, OperandDigits: []int{2, 2, 2}, QuestionsPerPage: 8, EasyMode: true},
			{Operation: Addition, OperandDigits: []int{3, 3}, QuestionsPerPage: 8, CarryControl: CarryRequire},
		},
	}

	a := NewGenerator(777).GenerateWorksheet(spec)
	b := NewGenerator(777).GenerateWorksheet(spec)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("worksheets generated from the same seed differ")
	}

	c := NewGenerator(778).GenerateWorksheet(spec)
	if reflect.DeepEqual(a.Pages, c.Pages) {
		t.Fatal("worksheets generated from different seeds are identical")
	}
}

func TestGeneratePage_ShufflesAcrossTypes(t *testing.T) {
	spec := WorksheetSpec{
		NumberOfPages: 1,
		Problems: []ProblemSpec{
			{Operation: Addition, OperandDigits: []int{1, 1}, QuestionsPerPage: 10},
			{Operation: Multiplication, OperandDigits: []int{1, 1}, QuestionsPerPage: 10},
		},
	}

	orders := make(map[string]bool)
	for seed := uint64(1); seed <= 10; seed++ {
		page := NewGenerator(seed).GeneratePage(spec, 0)
		var b strings.Builder
		for _, p := range page.Problems {
			b.WriteString(p.Operation.Symbol())
		}
		orders[b.String()] = true
	}
	if len(orders) < 2 {
		t.Errorf("10 seeds produced %d distinct orderings, want more than 1", len(orders))
	}
}

func TestGenerateWorksheet_SubtractionEasyScenario(t *testing.T) {
	spec := WorksheetSpec{
		NumberOfPages: 2,
		PageOffset:    1,
		Problems: []ProblemSpec{
			{Operation: Subtraction, OperandDigits: []int{2, 2, 2}, QuestionsPerPage: 20, EasyMode: true},
		},
	}

	w := NewGenerator(31).GenerateWorksheet(spec)
	for _, page := range w.Pages {
		negative := 0
		for _, p := range page.Problems {
			running := p.Operands[0]
			for _, n := range p.Operands[1:] {
				running -= n
				if running < 0 {
					negative++
					break
				}
			}
		}
		if negative > page.Fallbacks {
			t.Errorf("page %d: %d problems go negative, %d fallbacks reported", page.Number, negative, page.Fallbacks)
		}
	}
}

func TestAnswerKey(t *testing.T) {
	w := Worksheet{
		Pages: []Page{
			{Number: 1, Problems: []Problem{
				{Operands: []int{3, 4}, Operation: Addition, Number: 1},
				{Operands: []int{20, 4}, Operation: Division, Number: 2},
			}},
			{Number: 2, Problems: []Problem{
				{Operands: []int{9, 2, 3}, Operation: Subtraction, Number: 1},
			}},
		},
	}

	want := [][]string{
		{"1. 3 + 4 = 7", "2. 20 ÷ 4 = 5"},
		{"1. 9 - 2 - 3 = 4"},
	}
	if got := AnswerKey(w); !reflect.DeepEqual(got, want) {
		t.Errorf("AnswerKey() = %v, want %v", got, want)
	}
}

func TestWorksheetSpec_TotalQuestionsPerPage(t *testing.T) {
	spec := WorksheetSpec{Problems: []ProblemSpec{{QuestionsPerPage: 12}, {QuestionsPerPage: 8}}}
	if got := spec.TotalQuestionsPerPage(); got != 20 {
		t.Errorf("TotalQuestionsPerPage() = %d, want 20", got)
	}
	if spec.HasHeader() {
		t.Error("HasHeader() = true for empty names")
	}
}
