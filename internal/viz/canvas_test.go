package viz

import (
	"strings"
	"testing"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	if w, h := c.Dots(); w != 4 || h != 4 {
		t.Fatalf("Dots() = %d, %d; want 4, 4", w, h)
	}

	c.Set(0, 0)
	c.Set(1, 3)
	if got := c.Grid[0][0]; got != brailleBlank|0x01|0x80 {
		t.Errorf("cell = %U", got)
	}
	if !c.IsSet(1, 3) || c.IsSet(1, 2) {
		t.Error("IsSet disagrees with Set")
	}

	c.Unset(0, 0)
	if got := c.Grid[0][0]; got != brailleBlank|0x80 {
		t.Errorf("after Unset cell = %U", got)
	}

	// out of range is ignored
	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)
	c.Unset(-1, -1)
	if c.IsSet(-1, 0) || c.IsSet(4, 0) {
		t.Error("out of range dots reported set")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           [][2]int
	}{
		{"horizontal", 0, 0, 3, 0, [][2]int{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{"vertical reversed", 1, 3, 1, 0, [][2]int{{1, 0}, {1, 1}, {1, 2}, {1, 3}}},
		{"diagonal", 0, 0, 3, 3, [][2]int{{0, 0}, {1, 1}, {2, 2}, {3, 3}}},
		{"single dot", 2, 2, 2, 2, [][2]int{{2, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(2, 1)
			c.DrawLine(tt.x0, tt.y0, tt.x1, tt.y1)

			count := 0
			for y := 0; y < 4; y++ {
				for x := 0; x < 4; x++ {
					if c.IsSet(x, y) {
						count++
					}
				}
			}
			if count != len(tt.want) {
				t.Errorf("lit %d dots, want %d", count, len(tt.want))
			}
			for _, p := range tt.want {
				if !c.IsSet(p[0], p[1]) {
					t.Errorf("dot %v not set", p)
				}
			}
		})
	}
}

func TestCanvasFillCircleAndClear(t *testing.T) {
	c := NewCanvas(4, 2)
	c.FillCircle(4, 4, 1)
	for _, p := range [][2]int{{4, 4}, {3, 4}, {5, 4}, {4, 3}, {4, 5}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("dot %v not set", p)
		}
	}
	if c.IsSet(3, 3) {
		t.Error("corner outside radius was set")
	}

	c.Clear()
	if strings.Trim(c.String(), string(brailleBlank)+"\n") != "" {
		t.Error("canvas not blank after Clear")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := strings.Split(c.String(), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for _, l := range lines {
		if n := len([]rune(l)); n != 3 {
			t.Errorf("line has %d cells, want 3", n)
		}
	}
}
