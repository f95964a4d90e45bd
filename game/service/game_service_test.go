package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/toyrobot/game/engine"
	"github.com/wricardo/mcp-training/toyrobot/game/service"
	"github.com/wricardo/mcp-training/toyrobot/game/session"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	session := &service.Session{
		ID:             id,
		Robot:          engine.NewRobot(),
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id string) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errors.New("session not found")
}

// MockScenarioManager implements service.ScenarioManager for testing
type MockScenarioManager struct {
	scenarios map[string]*engine.Scenario
}

func NewMockScenarioManager() *MockScenarioManager {
	return &MockScenarioManager{
		scenarios: map[string]*engine.Scenario{
			"canonical": engine.DefaultScenario(),
			"edge": {
				Name:         "edge",
				Placement:    engine.ScenarioPlacement{X: 0, Y: 4, Facing: "NORTH"},
				Commands:     []string{"MOVE", "MOVE", "REPORT"},
				ExpectReport: "0,3,NORTH",
			},
		},
	}
}

func (m *MockScenarioManager) LoadScenario(name string) (*engine.Scenario, error) {
	scenario, exists := m.scenarios[name]
	if !exists {
		return nil, errors.New("scenario not found")
	}
	return scenario, nil
}

func (m *MockScenarioManager) ListScenarios() ([]*service.ScenarioInfo, error) {
	result := make([]*service.ScenarioInfo, 0, len(m.scenarios))
	for id, s := range m.scenarios {
		result = append(result, &service.ScenarioInfo{
			Filename:   id + ".yaml",
			ScenarioID: id,
			Name:       s.Name,
			Commands:   len(s.Commands),
		})
	}
	return result, nil
}

func (m *MockScenarioManager) GetDefault() *engine.Scenario {
	return m.scenarios["canonical"]
}

func (m *MockScenarioManager) SaveScenario(name string, scenario *engine.Scenario) error {
	m.scenarios[name] = scenario
	return nil
}

// recordingSink collects audit entries
type recordingSink struct {
	mu      sync.Mutex
	entries []service.AuditEntry
	err     error
}

func (r *recordingSink) Write(v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := v.(service.AuditEntry); ok {
		r.entries = append(r.entries, entry)
	}
	return r.err
}

func newTestService(t *testing.T) (service.SimulatorService, *recordingSink, string) {
	t.Helper()
	sink := &recordingSink{}
	svc := service.NewSimulatorService(NewMockSessionManager(), NewMockScenarioManager(), sink)
	info, err := svc.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return svc, sink, info.ID
}

// Test cases
func TestSimulatorService_CreateSession(t *testing.T) {
	svc, _, id := newTestService(t)

	info, err := svc.GetSession(context.Background(), id)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if info.State == nil || info.State.Placed {
		t.Errorf("Expected new session with unplaced robot, got %+v", info.State)
	}
	if info.State.Report != "" || len(info.State.History) != 0 {
		t.Errorf("Expected empty report and history, got %+v", info.State)
	}
}

func TestSimulatorService_Place(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		req      service.PlaceRequest
		accepted bool
		report   string
		history  string
	}{
		{"valid", service.PlaceRequest{X: 1, Y: 2, Facing: "EAST"}, true, "1,2,EAST", "PLACE 1,2,EAST"},
		{"lowercase facing", service.PlaceRequest{X: 0, Y: 0, Facing: "north"}, true, "0,0,NORTH", "PLACE 0,0,NORTH"},
		{"off grid", service.PlaceRequest{X: 5, Y: 0, Facing: "NORTH"}, false, "", "PLACE 5,0,NORTH"},
		{"negative", service.PlaceRequest{X: -1, Y: 2, Facing: "WEST"}, false, "", "PLACE -1,2,WEST"},
		{"unknown facing", service.PlaceRequest{X: 1, Y: 1, Facing: "up"}, false, "", "PLACE 1,1,UP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, id := newTestService(t)

			result, err := svc.Place(ctx, id, tt.req)
			if err != nil {
				t.Fatalf("Place() error = %v", err)
			}
			if result.Accepted != tt.accepted {
				t.Errorf("Accepted = %v, want %v", result.Accepted, tt.accepted)
			}
			if result.State.Report != tt.report {
				t.Errorf("Report = %q, want %q", result.State.Report, tt.report)
			}
			if len(result.State.History) != 1 || result.State.History[0] != tt.history {
				t.Errorf("History = %v, want [%s]", result.State.History, tt.history)
			}
			if len(result.Events) != 1 {
				t.Errorf("Expected one event, got %d", len(result.Events))
			}
		})
	}
}

func TestSimulatorService_InvalidPlaceKeepsPosition(t *testing.T) {
	ctx := context.Background()
	svc, _, id := newTestService(t)

	_, _ = svc.Place(ctx, id, service.PlaceRequest{X: 2, Y: 2, Facing: "SOUTH"})
	result, err := svc.Place(ctx, id, service.PlaceRequest{X: 7, Y: 7, Facing: "NORTH"})
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if result.Accepted || result.Changed {
		t.Errorf("Expected ignored placement, got accepted=%v changed=%v", result.Accepted, result.Changed)
	}
	if result.State.Report != "2,2,SOUTH" {
		t.Errorf("Expected robot to stay at 2,2,SOUTH, got %q", result.State.Report)
	}
	if result.State.InitialPlacement == nil || result.State.InitialPlacement.String() != "2,2,SOUTH" {
		t.Errorf("Expected initial placement to remain 2,2,SOUTH, got %v", result.State.InitialPlacement)
	}
}

func TestSimulatorService_Command(t *testing.T) {
	ctx := context.Background()
	svc, _, id := newTestService(t)

	// Unplaced robot ignores motion
	res, err := svc.Command(ctx, id, "MOVE")
	if err != nil {
		t.Fatalf("Command() error = %v", err)
	}
	if res.Accepted || res.Events[0].Type != "unplaced" {
		t.Errorf("Expected unplaced outcome, got %+v", res)
	}

	_, _ = svc.Place(ctx, id, service.PlaceRequest{X: 0, Y: 4, Facing: "NORTH"})

	tests := []struct {
		command string
		outcome string
		changed bool
		report  string
	}{
		{"MOVE", "blocked", false, "0,4,NORTH"},
		{"right", "turned", true, "0,4,EAST"},
		{" move ", "moved", true, "1,4,EAST"},
		{"JUMP", "ignored", false, "1,4,EAST"},
		{"REPORT", "reported", false, "1,4,EAST"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			res, err := svc.Command(ctx, id, tt.command)
			if err != nil {
				t.Fatalf("Command() error = %v", err)
			}
			if res.Events[0].Type != tt.outcome {
				t.Errorf("Outcome = %s, want %s", res.Events[0].Type, tt.outcome)
			}
			if res.Changed != tt.changed {
				t.Errorf("Changed = %v, want %v", res.Changed, tt.changed)
			}
			if res.State.Report != tt.report {
				t.Errorf("Report = %q, want %q", res.State.Report, tt.report)
			}
		})
	}

	// All raw commands are recorded, including unknown ones
	state, _ := svc.GetState(ctx, id)
	if got := len(state.History); got != 7 {
		t.Errorf("Expected 7 history entries, got %d: %v", got, state.History)
	}
}

func TestSimulatorService_Sequence(t *testing.T) {
	ctx := context.Background()
	svc, _, id := newTestService(t)

	_, _ = svc.Place(ctx, id, service.PlaceRequest{X: 1, Y: 2, Facing: "EAST"})
	res, err := svc.Sequence(ctx, id, []string{"MOVE", "", "MOVE", "  ", "LEFT", "MOVE", "REPORT"})
	if err != nil {
		t.Fatalf("Sequence() error = %v", err)
	}

	if res.Requested != 7 || res.Executed != 5 {
		t.Errorf("Expected 7 requested / 5 executed, got %d / %d", res.Requested, res.Executed)
	}
	if res.Changed != 4 {
		t.Errorf("Expected 4 changing steps, got %d", res.Changed)
	}
	if res.Report != "3,3,NORTH" {
		t.Errorf("Expected 3,3,NORTH, got %q", res.Report)
	}
	if len(res.Steps) != 5 || res.Steps[4].Idx != 5 {
		t.Errorf("Unexpected steps: %+v", res.Steps)
	}

	if _, err := svc.Sequence(ctx, "nope", []string{"MOVE"}); err == nil {
		t.Error("Expected error for unknown session")
	}
}

func TestSimulatorService_Run(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     service.RunRequest
		report  string
		placed  bool
		history []string
	}{
		{
			name:    "canonical",
			req:     service.RunRequest{X: 0, Y: 0, Facing: "NORTH", Commands: []string{"MOVE", "RIGHT", "MOVE", "LEFT", "MOVE"}},
			report:  "1,2,NORTH",
			placed:  true,
			history: []string{"PLACE 0,0,NORTH", "MOVE", "RIGHT", "MOVE", "LEFT", "MOVE"},
		},
		{
			name:    "west edge",
			req:     service.RunRequest{X: 0, Y: 0, Facing: "WEST", Commands: []string{"MOVE", "MOVE", "LEFT"}},
			report:  "0,0,SOUTH",
			placed:  true,
			history: []string{"PLACE 0,0,WEST", "MOVE", "MOVE", "LEFT"},
		},
		{
			name:    "invalid placement",
			req:     service.RunRequest{X: 6, Y: 0, Facing: "NORTH", Commands: []string{"MOVE"}},
			report:  "",
			placed:  false,
			history: []string{"PLACE 6,0,NORTH", "MOVE"},
		},
		{
			name:    "unknown facing",
			req:     service.RunRequest{X: 1, Y: 1, Facing: "up", Commands: []string{"LEFT"}},
			report:  "",
			placed:  false,
			history: []string{"PLACE 1,1,UP", "LEFT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, id := newTestService(t)

			// Earlier state must not leak into the run
			_, _ = svc.Place(ctx, id, service.PlaceRequest{X: 4, Y: 4, Facing: "SOUTH"})

			res, err := svc.Run(ctx, id, tt.req)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if res.Report != tt.report || res.Placed != tt.placed {
				t.Errorf("Report = %q/%v, want %q/%v", res.Report, res.Placed, tt.report, tt.placed)
			}
			if fmt.Sprint(res.History) != fmt.Sprint(tt.history) {
				t.Errorf("History = %v, want %v", res.History, tt.history)
			}
			if len(res.Panes) != engine.GridSize+2 {
				t.Errorf("Expected %d pane lines, got %d", engine.GridSize+2, len(res.Panes))
			}
		})
	}
}

func TestSimulatorService_Reset(t *testing.T) {
	ctx := context.Background()
	svc, _, id := newTestService(t)

	_, _ = svc.Place(ctx, id, service.PlaceRequest{X: 1, Y: 1, Facing: "NORTH"})
	_, _ = svc.Command(ctx, id, "MOVE")

	state, err := svc.Reset(ctx, id)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if state.Placed || state.InitialPlacement != nil || len(state.History) != 0 {
		t.Errorf("Expected pristine robot after reset, got %+v", state)
	}

	report, err := svc.Report(ctx, id)
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if report.Placed || report.Report != "" {
		t.Errorf("Expected no report after reset, got %+v", report)
	}
}

func TestSimulatorService_GetHistory(t *testing.T) {
	ctx := context.Background()
	svc, _, id := newTestService(t)

	_, _ = svc.Run(ctx, id, service.RunRequest{X: 0, Y: 0, Facing: "NORTH", Commands: []string{"MOVE", "RIGHT", "MOVE", "LEFT"}})

	tests := []struct {
		name      string
		sessionID string
		opts      service.HistoryOptions
		first     string
		count     int
		hasNext   bool
		wantErr   bool
	}{
		{
			name:      "default options",
			sessionID: id,
			opts:      service.HistoryOptions{},
			first:     "LEFT",
			count:     5,
		},
		{
			name:      "ascending page",
			sessionID: id,
			opts:      service.HistoryOptions{Page: 1, Limit: 2, Order: "asc"},
			first:     "PLACE 0,0,NORTH",
			count:     2,
			hasNext:   true,
		},
		{
			name:      "last descending page",
			sessionID: id,
			opts:      service.HistoryOptions{Page: 3, Limit: 2, Order: "desc"},
			first:     "PLACE 0,0,NORTH",
			count:     1,
		},
		{
			name:      "invalid session",
			sessionID: "nonexistent",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.GetHistory(ctx, tt.sessionID, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetHistory() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(result.Entries) != tt.count {
				t.Fatalf("Expected %d entries, got %d", tt.count, len(result.Entries))
			}
			if result.Entries[0].Command != tt.first {
				t.Errorf("First entry = %q, want %q", result.Entries[0].Command, tt.first)
			}
			if result.HasNext != tt.hasNext {
				t.Errorf("HasNext = %v, want %v", result.HasNext, tt.hasNext)
			}
			if result.Total != 5 {
				t.Errorf("Total = %d, want 5", result.Total)
			}
		})
	}
}

func TestSimulatorService_RunScenario(t *testing.T) {
	ctx := context.Background()
	svc, _, id := newTestService(t)

	tests := []struct {
		name    string
		report  string
		matched bool
		wantErr bool
	}{
		{"canonical", "1,2,NORTH", true, false},
		{"edge", "0,4,NORTH", false, false},
		{"", "1,2,NORTH", true, false},
		{"missing", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.RunScenario(ctx, id, tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RunScenario() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if res.Report != tt.report {
				t.Errorf("Report = %q, want %q", res.Report, tt.report)
			}
			if res.Matched == nil || *res.Matched != tt.matched {
				t.Errorf("Matched = %v, want %v", res.Matched, tt.matched)
			}
		})
	}
}

func TestSimulatorService_Scenarios(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	list, err := svc.ListScenarios(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListScenarios() = %d, %v", len(list), err)
	}

	err = svc.SaveScenario(ctx, "spin", &engine.Scenario{Name: "spin", Commands: []string{"LEFT"}})
	if err != nil {
		t.Fatalf("SaveScenario() error = %v", err)
	}
	s, err := svc.LoadScenario(ctx, "spin")
	if err != nil || s.Name != "spin" {
		t.Errorf("LoadScenario() = %v, %v", s, err)
	}
}

func TestSimulatorService_Audit(t *testing.T) {
	ctx := context.Background()
	svc, sink, id := newTestService(t)

	_, _ = svc.Place(ctx, id, service.PlaceRequest{X: 0, Y: 0, Facing: "NORTH"})
	_, _ = svc.Command(ctx, id, "MOVE")
	_, _ = svc.GetState(ctx, id)

	if len(sink.entries) != 2 {
		t.Fatalf("Expected 2 audit entries, got %d", len(sink.entries))
	}
	last := sink.entries[1]
	if last.Op != "command" || last.SessionID != id || last.Report != "0,1,NORTH" || !last.Placed {
		t.Errorf("Unexpected audit entry: %+v", last)
	}
	if last.ID == "" || last.ID == sink.entries[0].ID {
		t.Errorf("Expected unique audit IDs, got %q and %q", sink.entries[0].ID, last.ID)
	}

	// A failing sink does not fail the operation
	sink.err = errors.New("disk full")
	if _, err := svc.Command(ctx, id, "MOVE"); err != nil {
		t.Errorf("Expected audit failure to be ignored, got %v", err)
	}
}

func TestSimulatorService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := service.NewSimulatorService(NewMockSessionManager(), NewMockScenarioManager(), nil)

	// Create multiple sessions
	for i := 0; i < 3; i++ {
		if _, err := svc.CreateSession(ctx); err != nil {
			t.Fatalf("Failed to create session %d: %v", i, err)
		}
	}

	sessionList, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessionList) != 3 {
		t.Errorf("ListSessions() returned %d sessions, want 3", len(sessionList))
	}

	if err := svc.DeleteSession(ctx, sessionList[0].ID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := svc.GetSession(ctx, sessionList[0].ID); err == nil {
		t.Error("Expected deleted session to be gone")
	}
}

// Run with -race: GetSession touches LastAccessedAt while other callers read it
func TestSimulatorService_ConcurrentSessionReads(t *testing.T) {
	ctx := context.Background()
	svc := service.NewSimulatorService(session.NewManager(), NewMockScenarioManager(), nil)
	info, err := svc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for g := 0; g < 8; g++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if _, err := svc.GetSession(ctx, info.ID); err != nil {
					errs <- err
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				list, err := svc.ListSessions(ctx)
				if err != nil {
					errs <- err
					return
				}
				for _, s := range list {
					_ = s.LastAccessedAt
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent read failed: %v", err)
	}

	got, err := svc.GetSession(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.LastAccessedAt.Before(got.CreatedAt) {
		t.Errorf("Expected LastAccessedAt >= CreatedAt, got %v < %v", got.LastAccessedAt, got.CreatedAt)
	}
}
