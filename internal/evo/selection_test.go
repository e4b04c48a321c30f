package evo

import "testing"

func TestSelectBestBreaksTiesTowardLowestIndex(t *testing.T) {
	cases := []struct {
		scores    []uint64
		wantIndex int
		wantScore uint64
	}{
		{[]uint64{50, 10, 30}, 1, 10},
		{[]uint64{5, 5, 5}, 0, 5},
		{[]uint64{9, 3, 3, 1, 1}, 3, 1},
		{[]uint64{7}, 0, 7},
		{nil, -1, 0},
	}
	for _, tc := range cases {
		idx, score := SelectBest(tc.scores)
		if idx != tc.wantIndex || score != tc.wantScore {
			t.Fatalf("SelectBest(%v) = (%d, %d), want (%d, %d)", tc.scores, idx, score, tc.wantIndex, tc.wantScore)
		}
	}
}

func TestNextSnapshot(t *testing.T) {
	cases := []struct {
		generation, every, want int
	}{
		{171, 100, 200},
		{200, 100, 300},
		{1, 300, 300},
		{0, 300, 300},
		{5, 0, 6},
	}
	for _, tc := range cases {
		if got := NextSnapshot(tc.generation, tc.every); got != tc.want {
			t.Fatalf("NextSnapshot(%d, %d) = %d, want %d", tc.generation, tc.every, got, tc.want)
		}
	}
}
