package engine

import (
	"strings"
	"testing"
)

func TestRenderGrid_Empty(t *testing.T) {
	rows := RenderGrid(nil)
	if len(rows) != GridSize {
		t.Fatalf("Expected %d rows, got %d", GridSize, len(rows))
	}
	for i, row := range rows {
		if row != "....." {
			t.Errorf("Row %d: expected empty row, got %q", i, row)
		}
	}
}

func TestRenderGrid_NorthAtTop(t *testing.T) {
	tests := []struct {
		placement Placement
		row       int
		expected  string
	}{
		{Placement{Position{0, 4}, North}, 0, "^...."},
		{Placement{Position{4, 0}, East}, 4, "....>"},
		{Placement{Position{2, 2}, South}, 2, "..v.."},
		{Placement{Position{1, 3}, West}, 1, ".<..."},
	}

	for _, test := range tests {
		t.Run(test.placement.String(), func(t *testing.T) {
			p := test.placement
			rows := RenderGrid(&p)
			if rows[test.row] != test.expected {
				t.Errorf("Expected row %d to be %q, got %q", test.row, test.expected, rows[test.row])
			}
		})
	}
}

func TestRenderPanes(t *testing.T) {
	r := NewRobot()
	r.Run(0, 0, North, []string{"MOVE", "RIGHT", "MOVE", "LEFT", "MOVE"})

	lines := RenderPanes(r)
	if len(lines) != GridSize+2 {
		t.Fatalf("Expected %d lines, got %d", GridSize+2, len(lines))
	}
	if !strings.Contains(lines[0], "Initial Placement") || !strings.Contains(lines[0], "Final Position") {
		t.Errorf("Unexpected header %q", lines[0])
	}

	// y=0 row carries the initial robot on the left pane
	if !strings.HasPrefix(lines[5], "0 ^ . . . .") {
		t.Errorf("Expected initial robot at origin, got %q", lines[5])
	}
	// y=2 row carries the final robot on the right pane
	if !strings.HasSuffix(lines[3], "2 . ^ . . .") {
		t.Errorf("Expected final robot at (1,2), got %q", lines[3])
	}
}

func TestRenderPanes_Unplaced(t *testing.T) {
	lines := RenderPanes(NewRobot())
	for _, line := range lines[1 : len(lines)-1] {
		if strings.ContainsAny(line, "^>v<") {
			t.Errorf("Expected no robot glyphs, got %q", line)
		}
	}
}
