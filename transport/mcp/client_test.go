package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/mcp-training/toyrobot/api"
	"github.com/wricardo/mcp-training/toyrobot/game/config"
	"github.com/wricardo/mcp-training/toyrobot/game/engine"
	"github.com/wricardo/mcp-training/toyrobot/game/service"
	"github.com/wricardo/mcp-training/toyrobot/game/session"
)

func callTool(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080/"
	client := NewClient(baseURL)

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(service.ReportResult{Report: "1,2,NORTH", Placed: true})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var report service.ReportResult
	if err := client.apiCall("GET", "/api/sessions/ab12/report", nil, &report); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if report.Report != "1,2,NORTH" {
		t.Errorf("Expected 1,2,NORTH, got %s", report.Report)
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall("GET", "/api/sessions", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		contains string
	}{
		{"plain error", http.StatusInternalServerError, "Internal Server Error", "API error: 500"},
		{"json error", http.StatusNotFound, `{"error":"session not found"}`, "session not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := NewClient(server.URL).apiCall("GET", "/api/sessions", nil, nil)
			if err == nil || !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Expected error containing %q, got %v", tt.contains, err)
			}
		})
	}
}

func TestClient_handlePlace_RequiresArguments(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handlePlace(context.Background(), callTool("place", map[string]interface{}{
		"session_id": "ab12",
		"x":          float64(1),
	}))
	if err != nil {
		t.Fatalf("handlePlace failed: %v", err)
	}
	if !result.IsError {
		t.Error("Expected tool error for missing y and facing")
	}
	if called {
		t.Error("Expected no API call")
	}
}

func TestClient_handleSequence_Body(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions/ab12/sequence" {
			t.Errorf("Expected POST /api/sessions/ab12/sequence, got %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Commands []string `json:"commands"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if len(body.Commands) != 2 || body.Commands[0] != "MOVE" {
			t.Errorf("Unexpected commands: %v", body.Commands)
		}
		json.NewEncoder(w).Encode(service.SequenceResult{Requested: 2, Executed: 2, State: &engine.RobotState{}})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleSequence(context.Background(), callTool("sequence", map[string]interface{}{
		"session_id": "ab12",
		"commands":   []interface{}{"MOVE", "LEFT"},
		"intent":     "walk north then face west",
	}))
	if err != nil {
		t.Fatalf("handleSequence failed: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "Executed 2/2 commands") {
		t.Errorf("Unexpected result: %s", text)
	}
}

func TestClient_handleCommandHistory_Query(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("limit") != "5" || q.Get("order") != "asc" {
			t.Errorf("Unexpected query: %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(service.HistoryResponse{
			Entries:    []service.HistoryEntry{{Index: 6, Command: "MOVE"}},
			Total:      6,
			Page:       2,
			PageSize:   5,
			TotalPages: 2,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, _ := client.handleCommandHistory(context.Background(), callTool("command_history", map[string]interface{}{
		"session_id": "ab12",
		"page":       float64(2),
		"limit":      float64(5),
		"order":      "asc",
	}))

	text := resultText(t, result)
	if !strings.Contains(text, "Page 2/2") || !strings.Contains(text, "6. MOVE") {
		t.Errorf("Unexpected history output: %s", text)
	}
}

func TestFormatRobotState(t *testing.T) {
	pos := engine.Position{X: 1, Y: 2}
	heading := engine.East
	initial := engine.Placement{Position: engine.Position{X: 0, Y: 0}, Heading: engine.North}

	tests := []struct {
		name     string
		state    *engine.RobotState
		expected []string
	}{
		{"nil", nil, []string{"No robot state available"}},
		{"unplaced", &engine.RobotState{}, []string{"Robot: not placed", "Commands recorded: 0", "....."}},
		{"placed", &engine.RobotState{
			Placed:           true,
			Position:         &pos,
			Heading:          &heading,
			InitialPlacement: &initial,
			History:          []string{"PLACE 0,0,NORTH", "MOVE"},
		}, []string{"Robot: 1,2,EAST", "Initial placement: 0,0,NORTH", "Commands recorded: 2", ".>..."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatRobotState(tt.state)
			for _, field := range tt.expected {
				if !strings.Contains(result, field) {
					t.Errorf("Expected %q in formatted output, got: %s", field, result)
				}
			}
		})
	}
}

func TestFormatRunResult(t *testing.T) {
	matched := false
	result := formatRunResult(&service.RunResult{
		Scenario: "edge",
		Report:   "0,4,NORTH",
		Placed:   true,
		Expected: "0,3,NORTH",
		Matched:  &matched,
	})

	for _, field := range []string{"Scenario: edge", "Report: 0,4,NORTH", "✗ Expected 0,3,NORTH"} {
		if !strings.Contains(result, field) {
			t.Errorf("Expected %q in output, got: %s", field, result)
		}
	}

	unplaced := formatRunResult(&service.RunResult{})
	if !strings.Contains(unplaced, "robot never placed") {
		t.Errorf("Expected unplaced note, got: %s", unplaced)
	}
}

func TestClient_handleRobotInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleRobotInstructions(context.Background(), callTool("robot_instructions", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleRobotInstructions failed: %v", err)
	}

	text := resultText(t, result)
	for _, content := range []string{
		"Toy Robot Simulator - Complete Instructions",
		"THE TABLE:",
		"COMMANDS:",
		"RULES:",
		"GRID LEGEND:",
		"1,2,NORTH",
	} {
		if !strings.Contains(text, content) {
			t.Errorf("Expected %q in instructions", content)
		}
	}
}

// TestClient_AgainstAPI drives the tools through the real REST server
func TestClient_AgainstAPI(t *testing.T) {
	scenarios, err := config.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("config.NewManager failed: %v", err)
	}
	svc := service.NewSimulatorService(session.NewManager(), scenarios, nil)
	server := httptest.NewServer(api.NewServer(svc, nil))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	sid := info.ID

	steps := []struct {
		name     string
		call     func() (*mcp.CallToolResult, error)
		contains string
	}{
		{"report before place", func() (*mcp.CallToolResult, error) {
			return client.handleReport(ctx, callTool("report", map[string]interface{}{"session_id": sid}))
		}, "has not been placed"},
		{"place", func() (*mcp.CallToolResult, error) {
			return client.handlePlace(ctx, callTool("place", map[string]interface{}{
				"session_id": sid, "x": float64(0), "y": float64(0), "facing": "NORTH",
			}))
		}, "Placed at 0,0,NORTH"},
		{"invalid place", func() (*mcp.CallToolResult, error) {
			return client.handlePlace(ctx, callTool("place", map[string]interface{}{
				"session_id": sid, "x": float64(7), "y": float64(0), "facing": "NORTH",
			}))
		}, "Robot: 0,0,NORTH"},
		{"command", func() (*mcp.CallToolResult, error) {
			return client.handleCommand(ctx, callTool("command", map[string]interface{}{
				"session_id": sid, "command": "MOVE",
			}))
		}, "Robot: 0,1,NORTH"},
		{"sequence", func() (*mcp.CallToolResult, error) {
			return client.handleSequence(ctx, callTool("sequence", map[string]interface{}{
				"session_id": sid, "commands": []interface{}{"RIGHT", "MOVE", "LEFT", "MOVE", "REPORT"},
			}))
		}, "Last report: 1,2,NORTH"},
		{"state", func() (*mcp.CallToolResult, error) {
			return client.handleRobotState(ctx, callTool("robot_state", map[string]interface{}{"session_id": sid}))
		}, "Initial placement: 0,0,NORTH"},
		{"run scenario", func() (*mcp.CallToolResult, error) {
			return client.handleRunScenario(ctx, callTool("run_scenario", map[string]interface{}{
				"session_id": sid, "scenario": "canonical",
			}))
		}, "✓ Matches expected 1,2,NORTH"},
		{"run", func() (*mcp.CallToolResult, error) {
			return client.handleRun(ctx, callTool("run", map[string]interface{}{
				"session_id": sid, "x": float64(4), "y": float64(4), "facing": "NORTH",
				"commands": []interface{}{"MOVE"},
			}))
		}, "Report: 4,4,NORTH"},
		{"reset", func() (*mcp.CallToolResult, error) {
			return client.handleReset(ctx, callTool("reset_robot", map[string]interface{}{"session_id": sid}))
		}, "Robot: not placed"},
		{"sessions", func() (*mcp.CallToolResult, error) {
			return client.handleListSessions(ctx, callTool("list_sessions", map[string]interface{}{}))
		}, sid},
	}

	for _, step := range steps {
		result, err := step.call()
		if err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		if result.IsError {
			t.Fatalf("%s: tool error: %s", step.name, resultText(t, result))
		}
		if text := resultText(t, result); !strings.Contains(text, step.contains) {
			t.Errorf("%s: expected %q in %s", step.name, step.contains, text)
		}
	}

	result, _ := client.handleGetSession(ctx, callTool("get_session", map[string]interface{}{"session_id": "ffff"}))
	if !result.IsError {
		t.Error("Expected tool error for unknown session")
	}
}
