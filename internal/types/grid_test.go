package types

import "testing"

func TestBlankGrid(t *testing.T) {
	g := BlankGrid(ScreenHeight, ScreenWidth)
	if g.Height() != ScreenHeight {
		t.Errorf("expected height %d, got %d", ScreenHeight, g.Height())
	}
	if g.Width() != ScreenWidth {
		t.Errorf("expected width %d, got %d", ScreenWidth, g.Width())
	}
	for y := range g {
		if !g.Valid(y) {
			t.Errorf("expected row %d to be valid", y)
		}
	}
}

func TestPixelGrid_Width(t *testing.T) {
	t.Run("short first row", func(t *testing.T) {
		g := PixelGrid{{1}, {0, 1, 0}, {1, 1, 1}}
		if g.Width() != 3 {
			t.Errorf("expected width 3, got %d", g.Width())
		}
		if g.Valid(0) {
			t.Error("expected row 0 to be invalid")
		}
	})
	t.Run("tie", func(t *testing.T) {
		g := PixelGrid{{1, 0}, {0, 1, 0}}
		if g.Width() != 3 {
			t.Errorf("expected width 3, got %d", g.Width())
		}
	})
	t.Run("empty", func(t *testing.T) {
		if w := (PixelGrid{}).Width(); w != 0 {
			t.Errorf("expected width 0, got %d", w)
		}
	})
}

func TestPixelGrid_Valid(t *testing.T) {
	g := PixelGrid{{0, 1}, {2, 0}, {1, 1}}
	for y, want := range []bool{true, false, true} {
		if got := g.Valid(y); got != want {
			t.Errorf("row %d: expected %t, got %t", y, want, got)
		}
	}
	if g.Valid(5) {
		t.Error("expected out of range row to be invalid")
	}
}
