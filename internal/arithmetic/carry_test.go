package arithmetic

import "testing"

func TestAdditionHasCarry(t *testing.T) {
	tests := []struct {
		name string
		nums []int
		want bool
	}{
		{"single digits no carry", []int{3, 4}, false},
		{"single digits carry", []int{5, 5}, true},
		{"tens column carry", []int{51, 60}, true},
		{"no column reaches ten", []int{123, 456}, false},
		{"different widths", []int{1000, 9}, false},
		{"three operands", []int{3, 3, 4}, true},
		{"three operands no carry", []int{11, 22, 33}, false},
		// Raw column sums, no carry-in: each column of 45 + 54 sums to 9.
		{"raw column sums at nine", []int{45, 54}, false},
		{"three operands raw tens sum", []int{40, 30, 30}, true},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdditionHasCarry(tt.nums); got != tt.want {
				t.Errorf("AdditionHasCarry(%v) = %v, want %v", tt.nums, got, tt.want)
			}
		})
	}
}

func TestSubtractionHasBorrow(t *testing.T) {
	tests := []struct {
		a, b int
		want bool
	}{
		{9, 3, false},
		{3, 9, true},
		{52, 17, true},
		{57, 12, false},
		{100, 1, true},
		{109, 9, false},
		{5, 50, true},
		{0, 0, false},
	}

	for _, tt := range tests {
		if got := SubtractionHasBorrow(tt.a, tt.b); got != tt.want {
			t.Errorf("SubtractionHasBorrow(%d, %d) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
