package engine

import "strings"

// Engine provides the main interface for robot operations
type Engine interface {
	// Commands
	Place(x, y int, heading Heading)
	Move()
	TurnLeft()
	TurnRight()
	Report() (string, bool)
	ExecuteCommand(raw string)
	ExecuteSequence(commands []string)
	Reset()

	// Read-only views
	Placed() bool
	State() RobotState
	History() []string
	InitialPlacement() (Placement, bool)
}

// Robot is the single-robot state machine. It is not safe for concurrent
// use; callers serialize access.
type Robot struct {
	pos     Position
	heading Heading
	placed  bool

	history []string
	initial *Placement
}

var _ Engine = (*Robot)(nil)

// NewRobot creates an unplaced robot
func NewRobot() *Robot {
	r := &Robot{}
	r.Reset()
	return r
}

// Reset returns the robot to its just-constructed, never-placed state
func (r *Robot) Reset() {
	r.pos = Position{}
	r.heading = North
	r.placed = false
	r.history = []string{}
	r.initial = nil
}

// Place puts the robot on the grid. Out-of-range coordinates or an unknown
// heading leave the robot untouched.
func (r *Robot) Place(x, y int, heading Heading) {
	if !ValidPlacement(x, y, heading) {
		return
	}
	r.pos = Position{X: x, Y: y}
	r.heading = heading
	r.placed = true
	if r.initial == nil {
		r.initial = &Placement{Position: r.pos, Heading: heading}
	}
}

// Move advances one cell in the current heading unless that would leave the grid
func (r *Robot) Move() {
	if !r.placed {
		return
	}
	if next, ok := NextPosition(r.pos, r.heading); ok {
		r.pos = next
	}
}

// TurnLeft rotates the robot a quarter turn counter-clockwise
func (r *Robot) TurnLeft() {
	if !r.placed {
		return
	}
	r.heading = r.heading.Left()
}

// TurnRight rotates the robot a quarter turn clockwise
func (r *Robot) TurnRight() {
	if !r.placed {
		return
	}
	r.heading = r.heading.Right()
}

// Report returns "x,y,FACING", or false when the robot is not placed
func (r *Robot) Report() (string, bool) {
	if !r.placed {
		return "", false
	}
	return Placement{Position: r.pos, Heading: r.heading}.String(), true
}

// ExecuteCommand records raw in the history and dispatches MOVE, LEFT or
// RIGHT. Anything else is recorded and ignored.
func (r *Robot) ExecuteCommand(raw string) {
	r.history = append(r.history, raw)

	switch NormalizeCommand(raw) {
	case CmdMove:
		r.Move()
	case CmdLeft:
		r.TurnLeft()
	case CmdRight:
		r.TurnRight()
	}
}

// ExecuteSequence trims each line and runs it through ExecuteCommand. Blank
// lines, including ones in the middle of the sequence, are dropped and never
// reach the history.
func (r *Robot) ExecuteSequence(commands []string) {
	for _, line := range commands {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.ExecuteCommand(line)
	}
}

// ExecuteText splits newline-separated text and runs it as a sequence
func (r *Robot) ExecuteText(text string) {
	r.ExecuteSequence(strings.Split(text, "\n"))
}

// Record appends a synthetic entry, such as "PLACE 0,0,NORTH", to the history
func (r *Robot) Record(entry string) {
	r.history = append(r.history, entry)
}

// Placed returns whether the robot is on the grid
func (r *Robot) Placed() bool {
	return r.placed
}

// Position returns the current position, or false when unplaced
func (r *Robot) Position() (Position, bool) {
	if !r.placed {
		return Position{}, false
	}
	return r.pos, true
}

// Heading returns the current heading, or false when unplaced
func (r *Robot) Heading() (Heading, bool) {
	if !r.placed {
		return 0, false
	}
	return r.heading, true
}

// Current returns the current placement, or false when unplaced
func (r *Robot) Current() (Placement, bool) {
	if !r.placed {
		return Placement{}, false
	}
	return Placement{Position: r.pos, Heading: r.heading}, true
}

// CanMove reports whether Move would change the position
func (r *Robot) CanMove() bool {
	if !r.placed {
		return false
	}
	_, ok := NextPosition(r.pos, r.heading)
	return ok
}

// History returns a copy of the command history
func (r *Robot) History() []string {
	out := make([]string, len(r.history))
	copy(out, r.history)
	return out
}

// InitialPlacement returns the first successful placement since the last reset
func (r *Robot) InitialPlacement() (Placement, bool) {
	if r.initial == nil {
		return Placement{}, false
	}
	return *r.initial, true
}

// State returns a snapshot suitable for serialization
func (r *Robot) State() RobotState {
	state := RobotState{
		Placed:  r.placed,
		History: r.History(),
	}
	if r.placed {
		pos := r.pos
		heading := r.heading
		state.Position = &pos
		state.Heading = &heading
		state.Report, _ = r.Report()
	}
	if r.initial != nil {
		initial := *r.initial
		state.InitialPlacement = &initial
	}
	return state
}
