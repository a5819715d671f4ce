package ui

import "testing"

func TestDetermineLayoutMode(t *testing.T) {
	g := GridSize{Rows: 13, Cols: 12}
	tests := []struct {
		cols, rows int
		want       LayoutMode
	}{
		{cols: 140, rows: 40, want: LayoutWide},
		{cols: 80, rows: 31, want: LayoutWide},
		{cols: 79, rows: 31, want: LayoutCompact},
		{cols: 100, rows: 24, want: LayoutCompact},
		{cols: 37, rows: 24, want: LayoutTooSmall},
		{cols: 100, rows: 17, want: LayoutTooSmall},
	}
	for _, tt := range tests {
		if got := DetermineLayoutMode(tt.cols, tt.rows, g); got != tt.want {
			t.Fatalf("%dx%d: expected %v, got %v", tt.cols, tt.rows, tt.want, got)
		}
	}
	if cols, rows := MinimumSize(g); cols != 38 || rows != 18 {
		t.Fatalf("unexpected minimum size %dx%d", cols, rows)
	}
}
