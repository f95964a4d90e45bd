package engine

import (
	"fmt"
	"strings"
)

// Grid helper views. Not used by the state machine itself.

// Glyph returns the arrow drawn for a heading
func Glyph(h Heading) rune {
	switch h {
	case North:
		return '^'
	case East:
		return '>'
	case South:
		return 'v'
	case West:
		return '<'
	}
	return '?'
}

// RenderGrid draws the grid as GridSize rows, north (y=4) at the top. The
// placement, if any, is drawn with its heading glyph; empty cells are '.'.
func RenderGrid(p *Placement) []string {
	rows := make([]string, 0, GridSize)
	for y := MaxCoord; y >= MinCoord; y-- {
		row := make([]rune, 0, GridSize)
		for x := MinCoord; x <= MaxCoord; x++ {
			if p != nil && p.X == x && p.Y == y {
				row = append(row, Glyph(p.Heading))
				continue
			}
			row = append(row, '.')
		}
		rows = append(rows, string(row))
	}
	return rows
}

// RenderPanes draws the initial placement and current position side by
// side with a y-axis gutter and an x-axis footer.
func RenderPanes(r *Robot) []string {
	var initial, current *Placement
	if p, ok := r.InitialPlacement(); ok {
		initial = &p
	}
	if p, ok := r.Current(); ok {
		current = &p
	}

	left := RenderGrid(initial)
	right := RenderGrid(current)

	lines := []string{paneLine("  Initial Placement", "  Final Position")}
	for i := range left {
		y := MaxCoord - i
		lines = append(lines, paneLine(formatRow(y, left[i]), formatRow(y, right[i])))
	}
	lines = append(lines, paneLine("  0 1 2 3 4", "  0 1 2 3 4"))
	return lines
}

func paneLine(left, right string) string {
	return strings.TrimRight(fmt.Sprintf("%-20s   %s", left, right), " ")
}

// formatRow prefixes a grid row with its y coordinate and spaces the cells
func formatRow(y int, row string) string {
	cells := strings.Split(row, "")
	return fmt.Sprintf("%d %s", y, strings.Join(cells, " "))
}
