package service

import (
	"time"

	"github.com/wricardo/mcp-training/toyrobot/game/engine"
)

// SessionInfo provides information about a simulator session
type SessionInfo struct {
	ID             string             `json:"id"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	State          *engine.RobotState `json:"state"`
}

// PlaceRequest carries the arguments of a placement
type PlaceRequest struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Facing string `json:"facing"`
}

// RunRequest is a placement followed by a command list, executed on a
// freshly reset robot
type RunRequest struct {
	X        int      `json:"x"`
	Y        int      `json:"y"`
	Facing   string   `json:"facing"`
	Commands []string `json:"commands"`
}

// CommandResult contains the result of a single placement or command
type CommandResult struct {
	// Accepted is false when the robot ignored the input: invalid
	// placement, unplaced robot, or unknown command
	Accepted bool               `json:"accepted"`
	Changed  bool               `json:"changed"`
	Command  string             `json:"command"`
	Before   *engine.Placement  `json:"before,omitempty"`
	After    *engine.Placement  `json:"after,omitempty"`
	State    *engine.RobotState `json:"state"`
	Message  string             `json:"message"`
	Events   []RobotEvent       `json:"events,omitempty"`
}

// SequenceResult contains the result of a command sequence
type SequenceResult struct {
	Requested int                `json:"requested"`
	Executed  int                `json:"executed"`
	Changed   int                `json:"changed"`
	Steps     []StepInfo         `json:"steps"`
	State     *engine.RobotState `json:"state"`
	Report    string             `json:"report,omitempty"`
}

// StepInfo is a compact record for each executed command
type StepInfo struct {
	Idx     int               `json:"idx"`
	Command string            `json:"command"`
	Before  *engine.Placement `json:"before,omitempty"`
	After   *engine.Placement `json:"after,omitempty"`
	Changed bool              `json:"changed"`
	Outcome string            `json:"outcome"` // moved|turned|blocked|reported|ignored|unplaced
}

// RunResult contains the outcome of a full placement-and-execute run
type RunResult struct {
	Scenario string             `json:"scenario,omitempty"`
	State    *engine.RobotState `json:"state"`
	Report   string             `json:"report,omitempty"`
	Placed   bool               `json:"placed"`
	History  []string           `json:"history"`
	Panes    []string           `json:"panes"`

	// Set only for scenarios that declare an expected report
	Expected string `json:"expected,omitempty"`
	Matched  *bool  `json:"matched,omitempty"`
}

// ReportResult wraps a robot report
type ReportResult struct {
	Report string `json:"report"`
	Placed bool   `json:"placed"`
}

// RobotEvent represents something that happened to the robot
type RobotEvent struct {
	Type      string            `json:"type"` // "placed", "moved", "turned", "blocked", "ignored", "reset"
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Placement *engine.Placement `json:"placement,omitempty"`
}

// HistoryOptions configures command history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryEntry is one recorded command with its 1-based position
type HistoryEntry struct {
	Index   int    `json:"index"`
	Command string `json:"command"`
}

// HistoryResponse contains paginated command history
type HistoryResponse struct {
	Entries     []HistoryEntry `json:"entries"`
	Total       int            `json:"total"`
	Page        int            `json:"page"`
	PageSize    int            `json:"page_size"`
	TotalPages  int            `json:"total_pages"`
	HasNext     bool           `json:"has_next"`
	HasPrevious bool           `json:"has_previous"`
}

// ScenarioInfo provides information about a scenario file
type ScenarioInfo struct {
	Filename     string `json:"filename"`
	ScenarioID   string `json:"scenario_id"` // The identifier to use for runs
	Name         string `json:"name"`
	Description  string `json:"description"`
	Placement    string `json:"placement"`
	Commands     int    `json:"commands"`
	ExpectReport string `json:"expect_report,omitempty"`
}

// AuditEntry is written to the audit sink after every operation
type AuditEntry struct {
	ID        string    `json:"id"`
	Time      time.Time `json:"time"`
	SessionID string    `json:"session_id"`
	Op        string    `json:"op"`
	Input     any       `json:"input,omitempty"`
	Report    string    `json:"report,omitempty"`
	Placed    bool      `json:"placed"`
}
