package grid

import "testing"

func TestGetGridCoords(t *testing.T) {
	tests := []struct {
		index int
		cols  int
		wantX int
		wantY int
	}{
		// 16 bytes per viewer row
		{0, 16, 0, 0},
		{1, 16, 1, 0},
		{15, 16, 15, 0},
		{16, 16, 0, 1},
		{17, 16, 1, 1},
		{255, 16, 15, 15},
		{0xFFFF, 16, 15, 0xFFF},

		// 8 bytes per row (narrow window)
		{0, 8, 0, 0},
		{7, 8, 7, 0},
		{8, 8, 0, 1},
		{63, 8, 7, 7},
	}

	for _, tc := range tests {
		gotX, gotY := GetGridCoords(tc.index, tc.cols)
		if gotX != tc.wantX || gotY != tc.wantY {
			t.Errorf("GetGridCoords(%d, %d) = (%d, %d); want (%d, %d)", tc.index, tc.cols, gotX, gotY, tc.wantX, tc.wantY)
		}
	}
}

func TestRows(t *testing.T) {
	tests := []struct {
		n, cols, want int
	}{
		{0, 16, 0},
		{1, 16, 1},
		{16, 16, 1},
		{17, 16, 2},
		{256, 16, 16},
	}

	for _, tc := range tests {
		if got := Rows(tc.n, tc.cols); got != tc.want {
			t.Errorf("Rows(%d, %d) = %d; want %d", tc.n, tc.cols, got, tc.want)
		}
	}
}
