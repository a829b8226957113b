package arithmetic

import (
	"math"
	"math/bits"
)

// pow10 returns 10^n for n >= 0.
func pow10(n int) int {
	p := 1
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}

// DigitCount returns the number of decimal digits of n, ignoring the sign.
// Zero has one digit.
func DigitCount(n int) int {
	if n < 0 {
		n = -n
	}
	count := 1
	for n >= 10 {
		n /= 10
		count++
	}
	return count
}

// digitsOf returns the decimal digits of n, ones place first.
func digitsOf(n int) []int {
	if n < 0 {
		n = -n
	}
	digits := []int{n % 10}
	for n >= 10 {
		n /= 10
		digits = append(digits, n%10)
	}
	return digits
}

// mulInt returns a * b and reports whether the product fits in an int.
func mulInt(a, b int) (int, bool) {
	neg := (a < 0) != (b < 0)
	hi, lo := bits.Mul64(absUint(a), absUint(b))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}
	if neg {
		return -int(lo), true
	}
	return int(lo), true
}

func absUint(n int) uint64 {
	if n < 0 {
		return uint64(-n)
	}
	return uint64(n)
}

// productFits reports whether multiplying nums together stays within int.
func productFits(nums []int) bool {
	if len(nums) == 0 {
		return true
	}
	p := nums[0]
	for _, n := range nums[1:] {
		var ok bool
		if p, ok = mulInt(p, n); !ok {
			return false
		}
	}
	return true
}
