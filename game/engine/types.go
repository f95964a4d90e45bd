package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Heading is the direction the robot faces
type Heading int

const (
	North Heading = iota
	East
	South
	West
)

const (
	// Grid constants
	GridSize = 5
	MinCoord = 0
	MaxCoord = GridSize - 1

	headingCount = 4
)

// Command tokens understood by ExecuteCommand
const (
	CmdMove  = "MOVE"
	CmdLeft  = "LEFT"
	CmdRight = "RIGHT"

	// Tokens handled by front ends, never dispatched by the robot itself
	CmdPlace  = "PLACE"
	CmdReport = "REPORT"
)

var headingNames = [headingCount]string{"NORTH", "EAST", "SOUTH", "WEST"}

// Headings returns the fixed cyclic ordering NORTH, EAST, SOUTH, WEST
func Headings() []Heading {
	return []Heading{North, East, South, West}
}

// Valid reports whether h is one of the four headings
func (h Heading) Valid() bool {
	return h >= North && h <= West
}

// String returns the upper-case heading name
func (h Heading) String() string {
	if !h.Valid() {
		return fmt.Sprintf("Heading(%d)", int(h))
	}
	return headingNames[h]
}

// Left returns the heading after a quarter turn counter-clockwise
func (h Heading) Left() Heading {
	return Heading((int(h) + headingCount - 1) % headingCount)
}

// Right returns the heading after a quarter turn clockwise
func (h Heading) Right() Heading {
	return Heading((int(h) + 1) % headingCount)
}

// ParseHeading converts a name such as "north" or " WEST " into a Heading
func ParseHeading(s string) (Heading, bool) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range headingNames {
		if n == name {
			return Heading(i), true
		}
	}
	return 0, false
}

// MarshalJSON encodes the heading as its name
func (h Heading) MarshalJSON() ([]byte, error) {
	if !h.Valid() {
		return nil, fmt.Errorf("invalid heading %d", int(h))
	}
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a heading name
func (h *Heading) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, ok := ParseHeading(name)
	if !ok {
		return fmt.Errorf("invalid heading %q", name)
	}
	*h = parsed
	return nil
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// InBounds reports whether the position lies on the grid
func (p Position) InBounds() bool {
	return p.X >= MinCoord && p.X <= MaxCoord && p.Y >= MinCoord && p.Y <= MaxCoord
}

// Placement is a position together with a heading
type Placement struct {
	Position
	Heading Heading `json:"facing"`
}

// String renders the placement in report form, e.g. "1,2,NORTH"
func (p Placement) String() string {
	return fmt.Sprintf("%d,%d,%s", p.X, p.Y, p.Heading)
}

// RobotState is a read-only snapshot of a robot.
// Position and Heading are nil while the robot is unplaced.
type RobotState struct {
	Placed           bool       `json:"placed"`
	Position         *Position  `json:"position,omitempty"`
	Heading          *Heading   `json:"facing,omitempty"`
	Report           string     `json:"report,omitempty"`
	InitialPlacement *Placement `json:"initial_placement,omitempty"`
	History          []string   `json:"history"`
}
