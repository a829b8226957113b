package arithmetic

// AdditionHasCarry reports whether any decimal column of nums sums to 10 or
// more. Column sums are taken from the raw digits without propagating
// carries from lower columns, so for three or more operands this is an
// approximation of true column addition. Columns are scanned up to the digit
// count of the largest operand.
func AdditionHasCarry(nums []int) bool {
	if len(nums) == 0 {
		return false
	}
	largest := nums[0]
	for _, n := range nums[1:] {
		if n > largest {
			largest = n
		}
	}
	columns := DigitCount(largest)
	for col := 0; col < columns; col++ {
		place := pow10(col)
		sum := 0
		for _, n := range nums {
			sum += (n / place) % 10
		}
		if sum >= 10 {
			return true
		}
	}
	return false
}

// SubtractionHasBorrow reports whether computing a - b digit by digit needs a
// borrow: some digit of a, ones place first, is smaller than the matching
// digit of b, with the shorter number padded with zeros.
func SubtractionHasBorrow(a, b int) bool {
	ad, bd := digitsOf(a), digitsOf(b)
	columns := max(len(ad), len(bd))
	for col := 0; col < columns; col++ {
		var x, y int
		if col < len(ad) {
			x = ad[col]
		}
		if col < len(bd) {
			y = bd[col]
		}
		if x < y {
			return true
		}
	}
	return false
}

// carryAccepted applies spec's carry control to a shaped candidate.
// Operations without carry control always pass.
func carryAccepted(spec ProblemSpec, nums []int) bool {
	if spec.CarryControl == "" || spec.CarryControl == CarryNone {
		return true
	}
	switch spec.Operation {
	case Addition:
		return spec.CarryControl.accepts(AdditionHasCarry(nums))
	case Subtraction:
		if len(nums) < 2 {
			return true
		}
		return spec.CarryControl.accepts(SubtractionHasBorrow(nums[0], nums[1]))
	}
	return true
}
