package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// ScenarioPlacement is the starting placement of a scenario
type ScenarioPlacement struct {
	X      int    `json:"x" yaml:"x"`
	Y      int    `json:"y" yaml:"y"`
	Facing string `json:"facing" yaml:"facing"`
}

// Scenario is a canned placement plus a command list
type Scenario struct {
	Name         string            `json:"name" yaml:"name"`
	Description  string            `json:"description,omitempty" yaml:"description,omitempty"`
	Placement    ScenarioPlacement `json:"placement" yaml:"placement"`
	Commands     []string          `json:"commands" yaml:"commands"`
	ExpectReport string            `json:"expect_report,omitempty" yaml:"expect_report,omitempty"`
}

// DefaultScenario returns the canonical example run
func DefaultScenario() *Scenario {
	return &Scenario{
		Name:        "canonical",
		Description: "Place at the origin facing north and zig-zag up the grid",
		Placement: ScenarioPlacement{
			X:      0,
			Y:      0,
			Facing: North.String(),
		},
		Commands:     []string{CmdMove, CmdRight, CmdMove, CmdLeft, CmdMove},
		ExpectReport: "1,2,NORTH",
	}
}

// ValidateScenario checks a scenario for structural correctness. Placements
// off the grid and unknown commands are allowed: the robot ignores them.
func ValidateScenario(s *Scenario) error {
	if s == nil {
		return fmt.Errorf("scenario validation: scenario is nil")
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("scenario validation: name is required")
	}
	if _, ok := ParseHeading(s.Placement.Facing); !ok {
		return fmt.Errorf("scenario validation: placement.facing must be one of %v, got %q",
			headingNames, s.Placement.Facing)
	}
	if s.ExpectReport != "" {
		if _, err := ParseReport(s.ExpectReport); err != nil {
			return fmt.Errorf("scenario validation: expect_report: %w", err)
		}
	}
	return nil
}

// ParseReport parses "x,y,FACING" back into a placement
func ParseReport(report string) (Placement, error) {
	parts := strings.Split(strings.TrimSpace(report), ",")
	if len(parts) != 3 {
		return Placement{}, fmt.Errorf("report %q must have the form x,y,FACING", report)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Placement{}, fmt.Errorf("report %q: bad x: %w", report, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Placement{}, fmt.Errorf("report %q: bad y: %w", report, err)
	}
	h, ok := ParseHeading(parts[2])
	if !ok {
		return Placement{}, fmt.Errorf("report %q: bad facing %q", report, parts[2])
	}
	return Placement{Position: Position{X: x, Y: y}, Heading: h}, nil
}

// Run resets the robot, places it, records the synthetic PLACE entry and
// executes the commands, in that order. The PLACE entry is recorded even
// when the placement is rejected.
func (r *Robot) Run(x, y int, heading Heading, commands []string) {
	r.Reset()
	r.Place(x, y, heading)
	r.Record(FormatPlace(x, y, heading))
	r.ExecuteSequence(commands)
}

// RunScenario replays a validated scenario on a fresh robot
func RunScenario(s *Scenario) (*Robot, error) {
	if err := ValidateScenario(s); err != nil {
		return nil, err
	}
	heading, _ := ParseHeading(s.Placement.Facing)
	r := NewRobot()
	r.Run(s.Placement.X, s.Placement.Y, heading, s.Commands)
	return r, nil
}
