package engine

import (
	"fmt"
	"strings"
)

// delta returns the unit step for a heading
func delta(h Heading) (dx, dy int) {
	switch h {
	case North:
		return 0, 1
	case East:
		return 1, 0
	case South:
		return 0, -1
	case West:
		return -1, 0
	}
	return 0, 0
}

// NextPosition returns the cell one step ahead and whether it is on the grid
func NextPosition(p Position, h Heading) (Position, bool) {
	dx, dy := delta(h)
	next := Position{X: p.X + dx, Y: p.Y + dy}
	return next, next.InBounds()
}

// ValidPlacement reports whether Place would accept the arguments
func ValidPlacement(x, y int, h Heading) bool {
	return Position{X: x, Y: y}.InBounds() && h.Valid()
}

// FormatPlace renders the synthetic history entry for a placement
func FormatPlace(x, y int, h Heading) string {
	return fmt.Sprintf("%s %d,%d,%s", CmdPlace, x, y, h)
}

// NormalizeCommand trims and upper-cases a raw command
func NormalizeCommand(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// IsMotionCommand reports whether the normalized token is dispatched by ExecuteCommand
func IsMotionCommand(token string) bool {
	switch token {
	case CmdMove, CmdLeft, CmdRight:
		return true
	}
	return false
}
