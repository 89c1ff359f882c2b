package tui

import "testing"

func TestCalculateColumnLayout(t *testing.T) {
	tests := []struct {
		name      string
		termWidth int
		fixed     int
		focus     int
		want      ColumnLayout
	}{
		{"even split", 150, 0, 0, ColumnLayout{Width: 30, First: 0, Count: 5}},
		{"fixed width fits", 200, 24, 4, ColumnLayout{Width: 24, First: 0, Count: 5}},
		{"narrow terminal scrolls to focus", 60, 0, 4, ColumnLayout{Width: 18, First: 2, Count: 3}},
		{"narrow terminal keeps start", 60, 0, 1, ColumnLayout{Width: 18, First: 0, Count: 3}},
		{"tiny terminal shows one", 10, 0, 3, ColumnLayout{Width: 18, First: 3, Count: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateColumnLayout(tt.termWidth, tt.fixed, tt.focus); got != tt.want {
				t.Errorf("CalculateColumnLayout() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
