package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/toyrobot/game/engine"
)

// SimulatorService defines all robot-related operations
type SimulatorService interface {
	// Session Management
	CreateSession(ctx context.Context) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Robot Operations
	Place(ctx context.Context, sessionID string, req PlaceRequest) (*CommandResult, error)
	Command(ctx context.Context, sessionID, command string) (*CommandResult, error)
	Sequence(ctx context.Context, sessionID string, commands []string) (*SequenceResult, error)
	Run(ctx context.Context, sessionID string, req RunRequest) (*RunResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.RobotState, error)

	// Robot State
	GetState(ctx context.Context, sessionID string) (*engine.RobotState, error)
	Report(ctx context.Context, sessionID string) (*ReportResult, error)
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Scenarios
	ListScenarios(ctx context.Context) ([]*ScenarioInfo, error)
	LoadScenario(ctx context.Context, name string) (*engine.Scenario, error)
	SaveScenario(ctx context.Context, name string, scenario *engine.Scenario) error
	RunScenario(ctx context.Context, sessionID, name string) (*RunResult, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ScenarioManager handles scenario loading
type ScenarioManager interface {
	LoadScenario(name string) (*engine.Scenario, error)
	ListScenarios() ([]*ScenarioInfo, error)
	GetDefault() *engine.Scenario
	SaveScenario(name string, scenario *engine.Scenario) error
}

// AuditSink receives one record per executed operation
type AuditSink interface {
	Write(v any) error
}

// Session represents an active simulator with exactly one robot
type Session struct {
	ID             string
	Robot          *engine.Robot
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
