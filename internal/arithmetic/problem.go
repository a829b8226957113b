package arithmetic

import (
	"strconv"
	"strings"
)

// ProblemSpec describes one kind of problem on a worksheet.
//
// OperandDigits defines both the operand count and the exact digit count of
// each operand, in order.
type ProblemSpec struct {
	Operation        Operation    `json:"type"`
	OperandDigits    []int        `json:"operand_digits"`
	QuestionsPerPage int          `json:"questions_per_page"`
	EasyMode         bool         `json:"easy_mode"`
	CarryControl     CarryControl `json:"carry_control"`
}

// OperandCount returns the number of operands a problem of this spec has.
func (s ProblemSpec) OperandCount() int {
	return len(s.OperandDigits)
}

// ResultFits reports whether every problem of this spec has operands and an
// answer that fit in an int. Products and exact-division dividends can need
// as many digits as all operand widths together.
func (s ProblemSpec) ResultFits() bool {
	if s.Operation != Multiplication && (s.Operation != Division || !s.EasyMode) {
		return true
	}
	total := 0
	for _, d := range s.OperandDigits {
		total += max(d, 1)
	}
	return total <= maxDigits
}

// Problem is a generated problem: operands in display order, the operation
// and its 1-based position on the page.
type Problem struct {
	Operands  []int     `json:"operands"`
	Operation Operation `json:"operation"`
	Number    int       `json:"number"`
}

// Answer folds the operands left to right with the problem's operation.
func (p Problem) Answer() int {
	return Evaluate(p.Operation, p.Operands)
}

// DisplayString renders the problem without its answer, e.g. "23 + 45 =".
func (p Problem) DisplayString() string {
	return p.expression() + " ="
}

// AnswerDisplayString renders the problem with its answer, e.g. "23 + 45 = 68".
func (p Problem) AnswerDisplayString() string {
	return p.expression() + " = " + strconv.Itoa(p.Answer())
}

func (p Problem) expression() string {
	nums := make([]string, len(p.Operands))
	for i, n := range p.Operands {
		nums[i] = strconv.Itoa(n)
	}
	return strings.Join(nums, " "+p.Operation.Symbol()+" ")
}

// Evaluate applies op to operands as chained arithmetic: left to right with
// no precedence. Division truncates. An empty operand list evaluates to 0,
// and so does a division chain that meets a zero divisor or a product that
// overflows int.
func Evaluate(op Operation, operands []int) int {
	if len(operands) == 0 {
		return 0
	}
	result := operands[0]
	for _, n := range operands[1:] {
		switch op {
		case Addition:
			result += n
		case Subtraction:
			result -= n
		case Multiplication:
			var ok bool
			if result, ok = mulInt(result, n); !ok {
				return 0
			}
		case Division:
			if n == 0 {
				return 0
			}
			result /= n
		}
	}
	return result
}
