package arithmetic

import (
	"math/rand/v2"
	"slices"
)

// MaxAttempts bounds the rejection-sampling loop for a single problem.
const MaxAttempts = 100

// maxDigits is the widest operand that fits an int64 without overflow.
const maxDigits = 18

// Outcome tells whether a generated problem met its constraints.
type Outcome int

const (
	// OutcomeSatisfied means the problem satisfies every requested constraint.
	OutcomeSatisfied Outcome = iota
	// OutcomeFallback means the retry budget ran out and the operands are an
	// unconstrained draw that may violate easy mode or carry control.
	OutcomeFallback
)

func (o Outcome) String() string {
	if o == OutcomeFallback {
		return "fallback"
	}
	return "satisfied"
}

// Result is a generated problem together with how it was obtained.
type Result struct {
	Problem  Problem
	Outcome  Outcome
	Attempts int
}

// Generator produces problems and worksheets from a single pseudo-random
// source.
type Generator struct {
	rng  *rand.Rand
	seed uint64
}

// NewGenerator returns a Generator seeded with seed. Two generators with the
// same seed produce identical output for identical calls.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// NewGeneratorWithRand wraps an existing source. Seed reports 0 for such
// generators.
func NewGeneratorWithRand(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() uint64 {
	return g.seed
}

// RandomWithDigits returns a uniformly random integer with exactly d decimal
// digits and no leading zero. d == 1 yields a value in [1, 9]. d < 1 yields
// 0. Widths above 18 digits are clamped to 18.
func (g *Generator) RandomWithDigits(d int) int {
	if d < 1 {
		return 0
	}
	if d == 1 {
		return g.intRange(1, 9)
	}
	d = min(d, maxDigits)
	return g.intRange(pow10(d-1), pow10(d)-1)
}

// intRange returns a uniform integer in [lo, hi].
func (g *Generator) intRange(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

// GenerateProblem returns one problem for spec numbered number. It never
// fails; see Generate for the outcome of the constraint search.
func (g *Generator) GenerateProblem(spec ProblemSpec, number int) Problem {
	return g.Generate(spec, number).Problem
}

// Generate runs the bounded constraint search for one problem. At most
// MaxAttempts candidates are drawn; the first one that survives shaping and
// the constraint test is returned with OutcomeSatisfied. Otherwise a fresh
// unconstrained draw is returned with OutcomeFallback.
func (g *Generator) Generate(spec ProblemSpec, number int) Result {
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		operands, ok := g.shape(spec, g.draw(spec.OperandDigits))
		if ok {
			return Result{
				Problem:  Problem{Operands: operands, Operation: spec.Operation, Number: number},
				Outcome:  OutcomeSatisfied,
				Attempts: attempt,
			}
		}
	}

	return Result{
		Problem:  Problem{Operands: g.draw(spec.OperandDigits), Operation: spec.Operation, Number: number},
		Outcome:  OutcomeFallback,
		Attempts: MaxAttempts,
	}
}

// draw returns one digit-exact candidate per width, in order.
func (g *Generator) draw(widths []int) []int {
	nums := make([]int, len(widths))
	for i, d := range widths {
		nums[i] = g.RandomWithDigits(d)
	}
	return nums
}

// shape applies the operation-specific reshaping and constraint test to a
// candidate. It reports false when the candidate must be rejected.
func (g *Generator) shape(spec ProblemSpec, nums []int) ([]int, bool) {
	if len(nums) == 0 {
		return nums, true
	}

	switch spec.Operation {
	case Addition:
		return nums, carryAccepted(spec, nums)

	case Subtraction:
		if spec.EasyMode {
			slices.SortFunc(nums, func(a, b int) int { return b - a })
			if len(nums) > 2 && !runningTotalNonNegative(nums) {
				return nil, false
			}
		}
		return nums, carryAccepted(spec, nums)

	case Multiplication:
		return nums, productFits(nums)

	case Division:
		if !spec.EasyMode {
			if slices.Contains(nums[1:], 0) {
				return nil, false
			}
			return nums, true
		}
		return g.exactDivision(spec, nums)
	}

	return nums, true
}

// runningTotalNonNegative reports whether subtracting nums[1:] from nums[0]
// in order keeps every intermediate total at or above zero.
func runningTotalNonNegative(nums []int) bool {
	running := nums[0]
	for _, n := range nums[1:] {
		running -= n
		if running < 0 {
			return false
		}
	}
	return true
}

// exactDivision rebuilds a candidate so that dividing the first operand by
// each following operand in turn leaves no remainder.
//
// With two operands the draws are read as (quotient, divisor) and the
// dividend is their product, so the divisor keeps the width requested for
// the second position. With more operands every operand after the first is
// a divisor and a fresh base quotient, drawn with the first width, is
// multiplied by all of them. A dividend that would overflow int rejects the
// candidate.
func (g *Generator) exactDivision(spec ProblemSpec, nums []int) ([]int, bool) {
	if len(nums) == 1 {
		return nums, true
	}

	if len(nums) == 2 {
		quotient, divisor := nums[0], nums[1]
		if divisor == 0 {
			return nil, false
		}
		dividend, ok := mulInt(quotient, divisor)
		if !ok {
			return nil, false
		}
		return []int{dividend, divisor}, true
	}

	divisors := nums[1:]
	if slices.Contains(divisors, 0) {
		return nil, false
	}
	dividend := g.RandomWithDigits(max(1, spec.OperandDigits[0]))
	for _, d := range divisors {
		var ok bool
		if dividend, ok = mulInt(dividend, d); !ok {
			return nil, false
		}
	}
	return append([]int{dividend}, divisors...), true
}
