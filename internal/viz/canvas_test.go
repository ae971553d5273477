package viz

import (
	"strings"
	"testing"
)

func TestCanvasDimensions(t *testing.T) {
	c := NewCanvas(10, 4)
	out := c.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(lines))
	}
	for i, line := range lines {
		if len([]rune(line)) != 10 {
			t.Errorf("row %d has %d cells, want 10", i, len([]rune(line)))
		}
	}
}

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 2)

	empty := c.String()
	c.Set(0, 0)
	if c.String() == empty {
		t.Error("expected a lit dot to change the rendering")
	}

	// Dots accumulate within a cell.
	before := c.Grid[0][0]
	c.Set(1, 3)
	if c.Grid[0][0] == before {
		t.Error("expected second dot in same cell")
	}

	// Out-of-bounds coordinates are ignored.
	c.Set(-1, 0)
	c.Set(100, 100)
}

func TestCanvasMark(t *testing.T) {
	c := NewCanvas(3, 1)
	c.Set(0, 0)
	c.Mark(0, 0, '+')

	line := strings.Split(c.String(), "\n")[0]
	if []rune(line)[0] != '+' {
		t.Errorf("expected overlay rune, got %q", line)
	}

	c.Mark(-1, 0, 'x')
	c.Mark(3, 0, 'x')
	if strings.ContainsRune(c.String(), 'x') {
		t.Error("expected out-of-bounds marks to be ignored")
	}
}
