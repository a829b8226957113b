package arithmetic

import "testing"

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		op       Operation
		operands []int
		want     int
	}{
		{"addition chain", Addition, []int{12, 30, 5}, 47},
		{"subtraction left to right", Subtraction, []int{50, 20, 5}, 25},
		{"subtraction may go negative", Subtraction, []int{3, 8}, -5},
		{"multiplication chain", Multiplication, []int{2, 3, 4}, 24},
		{"division truncates", Division, []int{17, 5}, 3},
		{"division chain", Division, []int{120, 2, 3}, 20},
		{"no precedence", Division, []int{100, 10, 5}, 2},
		{"zero divisor answers zero", Division, []int{42, 0, 3}, 0},
		{"empty operands", Addition, nil, 0},
		{"single operand", Multiplication, []int{9}, 9},
		{"overflowing product answers zero", Multiplication, []int{99999, 99999, 99999, 99999, 99999}, 0},
		{"widest fitting product", Multiplication, []int{99999, 99999, 9999, 9999}, 999780014099780001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.op, tt.operands); got != tt.want {
				t.Errorf("Evaluate(%s, %v) = %d, want %d", tt.op, tt.operands, got, tt.want)
			}
		})
	}
}

func TestProblem_DisplayStrings(t *testing.T) {
	tests := []struct {
		problem    Problem
		display    string
		withAnswer string
	}{
		{
			problem:    Problem{Operands: []int{23, 45}, Operation: Addition, Number: 1},
			display:    "23 + 45 =",
			withAnswer: "23 + 45 = 68",
		},
		{
			problem:    Problem{Operands: []int{90, 12, 8}, Operation: Subtraction, Number: 2},
			display:    "90 - 12 - 8 =",
			withAnswer: "90 - 12 - 8 = 70",
		},
		{
			problem:    Problem{Operands: []int{7, 6}, Operation: Multiplication, Number: 3},
			display:    "7 × 6 =",
			withAnswer: "7 × 6 = 42",
		},
		{
			problem:    Problem{Operands: []int{84, 4}, Operation: Division, Number: 4},
			display:    "84 ÷ 4 =",
			withAnswer: "84 ÷ 4 = 21",
		},
	}

	for _, tt := range tests {
		if got := tt.problem.DisplayString(); got != tt.display {
			t.Errorf("DisplayString() = %q, want %q", got, tt.display)
		}
		if got := tt.problem.AnswerDisplayString(); got != tt.withAnswer {
			t.Errorf("AnswerDisplayString() = %q, want %q", got, tt.withAnswer)
		}
	}
}

func TestOperation_Capabilities(t *testing.T) {
	tests := []struct {
		op     Operation
		easy   bool
		carry  bool
		symbol string
	}{
		{Addition, false, true, "+"},
		{Subtraction, true, true, "-"},
		{Multiplication, false, false, "×"},
		{Division, true, false, "÷"},
	}

	for _, tt := range tests {
		if !tt.op.Valid() {
			t.Errorf("%s.Valid() = false", tt.op)
		}
		if got := tt.op.SupportsEasyMode(); got != tt.easy {
			t.Errorf("%s.SupportsEasyMode() = %v, want %v", tt.op, got, tt.easy)
		}
		if got := tt.op.SupportsCarryControl(); got != tt.carry {
			t.Errorf("%s.SupportsCarryControl() = %v, want %v", tt.op, got, tt.carry)
		}
		if got := tt.op.Symbol(); got != tt.symbol {
			t.Errorf("%s.Symbol() = %q, want %q", tt.op, got, tt.symbol)
		}
	}

	if Operation("modulo").Valid() {
		t.Error(`Operation("modulo").Valid() = true`)
	}
	if CarryControl("sometimes").Valid() {
		t.Error(`CarryControl("sometimes").Valid() = true`)
	}
}
