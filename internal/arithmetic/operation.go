package arithmetic

// Operation is the arithmetic operation a problem exercises.
type Operation string

const (
	Addition       Operation = "addition"
	Subtraction    Operation = "subtraction"
	Multiplication Operation = "multiplication"
	Division       Operation = "division"
)

// Operations lists every supported operation in display order.
var Operations = []Operation{Addition, Subtraction, Multiplication, Division}

// Valid reports whether o is one of the supported operations.
func (o Operation) Valid() bool {
	switch o {
	case Addition, Subtraction, Multiplication, Division:
		return true
	}
	return false
}

// Symbol returns the operator printed between operands.
func (o Operation) Symbol() string {
	switch o {
	case Addition:
		return "+"
	case Subtraction:
		return "-"
	case Multiplication:
		return "×"
	case Division:
		return "÷"
	}
	return "?"
}

// SupportsEasyMode reports whether easy mode changes generation for o.
func (o Operation) SupportsEasyMode() bool {
	return o == Subtraction || o == Division
}

// SupportsCarryControl reports whether carry/borrow control applies to o.
func (o Operation) SupportsCarryControl() bool {
	return o == Addition || o == Subtraction
}

// CarryControl forces or forbids a column carry (addition) or borrow
// (subtraction).
type CarryControl string

const (
	CarryNone    CarryControl = "none"
	CarryRequire CarryControl = "requireCarry"
	CarryPrevent CarryControl = "preventCarry"
)

// Valid reports whether c is a known setting. The empty value is treated as
// CarryNone.
func (c CarryControl) Valid() bool {
	switch c {
	case "", CarryNone, CarryRequire, CarryPrevent:
		return true
	}
	return false
}

// accepts maps a has-carry observation to the constraint verdict.
func (c CarryControl) accepts(hasCarry bool) bool {
	switch c {
	case CarryRequire:
		return hasCarry
	case CarryPrevent:
		return !hasCarry
	}
	return true
}
