package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/mcp-training/toyrobot/game/engine"
)

// simulatorServiceImpl implements the SimulatorService interface
type simulatorServiceImpl struct {
	sessions  SessionManager
	scenarios ScenarioManager
	audit     AuditSink
	mu        sync.RWMutex
}

// NewSimulatorService creates a new simulator service instance. audit may be nil.
func NewSimulatorService(sessions SessionManager, scenarios ScenarioManager, audit AuditSink) SimulatorService {
	return &simulatorServiceImpl{
		sessions:  sessions,
		scenarios: scenarios,
		audit:     audit,
	}
}

// CreateSession creates a new session with an unplaced robot
func (s *simulatorServiceImpl) CreateSession(ctx context.Context) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("")
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sessionInfo(session), nil
}

// GetSession retrieves session information. It touches LastAccessedAt, so
// it takes the write lock.
func (s *simulatorServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *simulatorServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *simulatorServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Place puts the session's robot on the grid. An invalid placement is not
// an error: the robot ignores it and Accepted is false.
func (s *simulatorServiceImpl) Place(ctx context.Context, sessionID string, req PlaceRequest) (*CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}
	robot := sess.Robot

	before := current(robot)
	heading, headingOK := engine.ParseHeading(req.Facing)
	accepted := headingOK && engine.ValidPlacement(req.X, req.Y, heading)

	entry := placeEntry(req.X, req.Y, req.Facing)
	if headingOK {
		robot.Place(req.X, req.Y, heading)
	}
	robot.Record(entry)

	after := current(robot)
	result := &CommandResult{
		Accepted: accepted,
		Changed:  !samePlacement(before, after),
		Command:  entry,
		Before:   before,
		After:    after,
		State:    state(robot),
	}
	if accepted {
		result.Message = fmt.Sprintf("Placed at %s", after)
		result.Events = []RobotEvent{newEvent("placed", result.Message, after)}
	} else {
		result.Message = fmt.Sprintf("Ignored invalid placement %d,%d,%s", req.X, req.Y, strings.ToUpper(strings.TrimSpace(req.Facing)))
		result.Events = []RobotEvent{newEvent("ignored", result.Message, after)}
	}

	s.record(sessionID, "place", req, robot)
	return result, nil
}

// Command executes a single raw command
func (s *simulatorServiceImpl) Command(ctx context.Context, sessionID, command string) (*CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}
	robot := sess.Robot

	step := execute(robot, 1, command)
	result := &CommandResult{
		Accepted: step.Outcome != "ignored" && step.Outcome != "unplaced",
		Changed:  step.Changed,
		Command:  command,
		Before:   step.Before,
		After:    step.After,
		State:    state(robot),
		Message:  outcomeMessage(step),
	}
	result.Events = []RobotEvent{newEvent(step.Outcome, result.Message, step.After)}

	s.record(sessionID, "command", command, robot)
	return result, nil
}

// Sequence executes commands in order, skipping blank lines
func (s *simulatorServiceImpl) Sequence(ctx context.Context, sessionID string, commands []string) (*SequenceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}
	robot := sess.Robot

	result := &SequenceResult{
		Requested: len(commands),
		Steps:     make([]StepInfo, 0, len(commands)),
	}

	for _, raw := range commands {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		result.Executed++
		step := execute(robot, result.Executed, line)
		if step.Changed {
			result.Changed++
		}
		result.Steps = append(result.Steps, step)
	}

	result.State = state(robot)
	result.Report = result.State.Report

	s.record(sessionID, "sequence", commands, robot)
	return result, nil
}

// Run resets the robot, places it and executes the commands, the way the
// interactive front end does it
func (s *simulatorServiceImpl) Run(ctx context.Context, sessionID string, req RunRequest) (*RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	runOn(sess.Robot, req)
	s.record(sessionID, "run", req, sess.Robot)
	return runResult(sess.Robot), nil
}

// Reset returns the robot to its unplaced state
func (s *simulatorServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.RobotState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Robot.Reset()
	s.record(sessionID, "reset", nil, sess.Robot)
	return state(sess.Robot), nil
}

// GetState returns the robot snapshot
func (s *simulatorServiceImpl) GetState(ctx context.Context, sessionID string) (*engine.RobotState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	return state(sess.Robot), nil
}

// Report returns the robot report; Placed is false when there is none
func (s *simulatorServiceImpl) Report(ctx context.Context, sessionID string) (*ReportResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	report, ok := sess.Robot.Report()
	return &ReportResult{Report: report, Placed: ok}, nil
}

// GetHistory returns a page of the command history
func (s *simulatorServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Robot.History()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	entries := []HistoryEntry{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			entries = append(entries, HistoryEntry{Index: i + 1, Command: history[i]})
		}
	} else {
		for i := start; i < end; i++ {
			entries = append(entries, HistoryEntry{Index: i + 1, Command: history[i]})
		}
	}

	return &HistoryResponse{
		Entries:     entries,
		Total:       total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListScenarios lists available scenarios
func (s *simulatorServiceImpl) ListScenarios(ctx context.Context) ([]*ScenarioInfo, error) {
	return s.scenarios.ListScenarios()
}

// LoadScenario loads a scenario by name; an empty name selects the default
func (s *simulatorServiceImpl) LoadScenario(ctx context.Context, name string) (*engine.Scenario, error) {
	if name == "" {
		return s.scenarios.GetDefault(), nil
	}
	return s.scenarios.LoadScenario(name)
}

// SaveScenario stores a scenario
func (s *simulatorServiceImpl) SaveScenario(ctx context.Context, name string, scenario *engine.Scenario) error {
	return s.scenarios.SaveScenario(name, scenario)
}

// RunScenario runs a named scenario on the session's robot
func (s *simulatorServiceImpl) RunScenario(ctx context.Context, sessionID, name string) (*RunResult, error) {
	scenario, err := s.LoadScenario(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	runOn(sess.Robot, RunRequest{
		X:        scenario.Placement.X,
		Y:        scenario.Placement.Y,
		Facing:   scenario.Placement.Facing,
		Commands: scenario.Commands,
	})
	s.record(sessionID, "run_scenario", scenario.Name, sess.Robot)

	result := runResult(sess.Robot)
	result.Scenario = scenario.Name
	if scenario.ExpectReport != "" {
		matched := result.Report == scenario.ExpectReport
		result.Expected = scenario.ExpectReport
		result.Matched = &matched
	}
	return result, nil
}

// touch looks a session up and refreshes its access time
func (s *simulatorServiceImpl) touch(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// record writes an audit entry; failures are logged and otherwise ignored
func (s *simulatorServiceImpl) record(sessionID, op string, input any, robot *engine.Robot) {
	if s.audit == nil {
		return
	}
	report, placed := robot.Report()
	entry := AuditEntry{
		ID:        uuid.NewString(),
		Time:      time.Now().UTC(),
		SessionID: sessionID,
		Op:        op,
		Input:     input,
		Report:    report,
		Placed:    placed,
	}
	if err := s.audit.Write(entry); err != nil {
		log.Printf("Warning: failed to write audit entry for session %s: %v", sessionID, err)
	}
}

// runOn applies a RunRequest to a robot. An unknown facing still resets
// the robot and records the PLACE entry; the placement itself is ignored.
func runOn(robot *engine.Robot, req RunRequest) {
	heading, ok := engine.ParseHeading(req.Facing)
	if ok {
		robot.Run(req.X, req.Y, heading, req.Commands)
		return
	}
	robot.Reset()
	robot.Record(placeEntry(req.X, req.Y, req.Facing))
	robot.ExecuteSequence(req.Commands)
}

// execute runs one command and classifies what happened
func execute(robot *engine.Robot, idx int, command string) StepInfo {
	before := current(robot)
	token := engine.NormalizeCommand(command)
	canMove := robot.CanMove()

	robot.ExecuteCommand(command)

	after := current(robot)
	step := StepInfo{
		Idx:     idx,
		Command: command,
		Before:  before,
		After:   after,
		Changed: !samePlacement(before, after),
	}

	switch {
	case token != engine.CmdReport && !engine.IsMotionCommand(token):
		step.Outcome = "ignored"
	case before == nil:
		step.Outcome = "unplaced"
	case token == engine.CmdReport:
		step.Outcome = "reported"
	case token == engine.CmdMove && !canMove:
		step.Outcome = "blocked"
	case token == engine.CmdMove:
		step.Outcome = "moved"
	default:
		step.Outcome = "turned"
	}
	return step
}

func outcomeMessage(step StepInfo) string {
	switch step.Outcome {
	case "moved":
		return fmt.Sprintf("Moved to %s", step.After)
	case "turned":
		return fmt.Sprintf("Turned to face %s", step.After.Heading)
	case "blocked":
		return fmt.Sprintf("Move blocked at grid edge, still at %s", step.After)
	case "reported":
		return fmt.Sprintf("Report: %s", step.After)
	case "unplaced":
		return "Robot not placed; command ignored"
	}
	return fmt.Sprintf("Unknown command %q ignored", step.Command)
}

func runResult(robot *engine.Robot) *RunResult {
	report, placed := robot.Report()
	return &RunResult{
		State:   state(robot),
		Report:  report,
		Placed:  placed,
		History: robot.History(),
		Panes:   engine.RenderPanes(robot),
	}
}

func sessionInfo(session *Session) *SessionInfo {
	return &SessionInfo{
		ID:             session.ID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		State:          state(session.Robot),
	}
}

func state(robot *engine.Robot) *engine.RobotState {
	st := robot.State()
	return &st
}

func current(robot *engine.Robot) *engine.Placement {
	p, ok := robot.Current()
	if !ok {
		return nil
	}
	return &p
}

func samePlacement(a, b *engine.Placement) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func placeEntry(x, y int, facing string) string {
	return fmt.Sprintf("%s %d,%d,%s", engine.CmdPlace, x, y, strings.ToUpper(strings.TrimSpace(facing)))
}

func newEvent(eventType, message string, placement *engine.Placement) RobotEvent {
	return RobotEvent{
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
		Placement: placement,
	}
}
