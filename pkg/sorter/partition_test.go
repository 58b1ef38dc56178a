package sorter

import (
	"cmp"
	"errors"
	"math/rand/v2"
	"testing"
)

func TestPartition_Invariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for round := 0; round < 500; round++ {
		n := 2 + rng.IntN(200)
		data := make([]int, n)
		for i := range data {
			data[i] = rng.IntN(20)
		}
		left := rng.IntN(n - 1)
		right := left + 1 + rng.IntN(n-left-1)
		pivot := data[left+rng.IntN(right-left+1)]

		lb, rb := partition(data, left, right, pivot, cmp.Compare[int])

		if rb >= lb {
			t.Fatalf("round %d: rb=%d >= lb=%d", round, rb, lb)
		}
		if rb < left-1 || lb > right+1 {
			t.Fatalf("round %d: cursors out of range: lb=%d rb=%d range=[%d,%d]", round, lb, rb, left, right)
		}
		for i := left; i <= rb; i++ {
			if data[i] > pivot {
				t.Fatalf("round %d: data[%d]=%d > pivot %d in left part", round, i, data[i], pivot)
			}
		}
		for i := rb + 1; i < lb; i++ {
			if data[i] != pivot {
				t.Fatalf("round %d: data[%d]=%d between parts, want pivot %d", round, i, data[i], pivot)
			}
		}
		for i := lb; i <= right; i++ {
			if data[i] < pivot {
				t.Fatalf("round %d: data[%d]=%d < pivot %d in right part", round, i, data[i], pivot)
			}
		}
	}
}

func TestPartition_SortedInputSplitsAtMidpoint(t *testing.T) {
	data := []int{0, 1, 2, 3, 4, 5, 6, 7, 8}

	lb, rb := partition(data, 0, 8, data[4], cmp.Compare[int])
	if lb != 5 || rb != 3 {
		t.Errorf("partition() = (%d, %d), want (5, 3)", lb, rb)
	}
}

func TestPickPivot(t *testing.T) {
	tests := []struct {
		name     string
		strategy PivotStrategy
		data     []int
		want     int
	}{
		{"midpoint odd", PivotMidpoint, []int{9, 8, 7, 6, 5}, 7},
		{"midpoint even", PivotMidpoint, []int{4, 3, 2, 1}, 3},
		{"median3 low mid", PivotMedianOfThree, []int{5, 0, 1, 0, 9}, 5},
		{"median3 mid", PivotMedianOfThree, []int{1, 0, 5, 0, 9}, 5},
		{"median3 high", PivotMedianOfThree, []int{1, 0, 9, 0, 5}, 5},
		{"median3 duplicates", PivotMedianOfThree, []int{2, 0, 2, 0, 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pickPivot(tt.strategy, tt.data, 0, len(tt.data)-1, cmp.Compare[int])
			if got != tt.want {
				t.Errorf("pickPivot() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParsePivot(t *testing.T) {
	tests := []struct {
		in      string
		want    PivotStrategy
		wantErr bool
	}{
		{"", PivotMidpoint, false},
		{"midpoint", PivotMidpoint, false},
		{"median3", PivotMedianOfThree, false},
		{"random", 0, true},
	}

	for _, tt := range tests {
		got, err := ParsePivot(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePivot(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownPivot) {
			t.Errorf("ParsePivot(%q) error = %v, want ErrUnknownPivot", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParsePivot(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if err == nil && tt.in != "" && got.String() != tt.in {
			t.Errorf("String() = %q, want %q", got.String(), tt.in)
		}
	}
}
