package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/toyrobot/game/engine"
	"github.com/wricardo/mcp-training/toyrobot/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Toy Robot Simulator",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Toy Robot Simulator - MCP Interface

This is a thin client that proxies all requests to the REST API server.

A single robot moves on a 5x5 table. (0,0) is the south-west corner, NORTH is +y.
The robot ignores everything until it has been placed, and silently refuses
any move that would make it fall off the table.

AVAILABLE TOOLS:
- create_session / list_sessions / get_session: manage simulator sessions
- robot_state: current placement, initial placement, history and grid
- place: put the robot on the table (x, y, facing)
- command: one of MOVE, LEFT, RIGHT, REPORT - requires intent explanation
- sequence: several commands at once - requires intent explanation
- run: reset, place, then execute a command list
- reset_robot: remove the robot from the table and clear its history
- report: the "x,y,FACING" report, if placed
- command_history: paginated command history
- list_scenarios / run_scenario: canned runs with expected reports
- robot_instructions: full rules

NOTE: The 'intent' parameter on command/sequence tools serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new simulator session with an unplaced robot",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active simulator sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Robot operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "robot_state",
		Description: "Get the robot's current state with a grid drawing",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleRobotState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place",
		Description: "Place the robot on the table. Invalid placements are ignored.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Column, 0-4 from west to east",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Row, 0-4 from south to north",
				},
				"facing": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"NORTH", "EAST", "SOUTH", "WEST"},
					"description": "Heading after placement",
				},
			},
			Required: []string{"session_id", "x", "y", "facing"},
		},
	}, c.handlePlace)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "command",
		Description: "Execute a single command",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"command": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"MOVE", "LEFT", "RIGHT", "REPORT"},
					"description": "Command to execute",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this command (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "command"},
		},
	}, c.handleCommand)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "sequence",
		Description: "Execute multiple commands in order",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"commands": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
					},
					"description": "Commands such as MOVE, LEFT, RIGHT, REPORT. Use the place tool to place the robot.",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "commands"},
		},
	}, c.handleSequence)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run",
		Description: "Reset the robot, place it, then execute a command list",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x":          map[string]interface{}{"type": "integer"},
				"y":          map[string]interface{}{"type": "integer"},
				"facing": map[string]interface{}{
					"type": "string",
					"enum": []string{"NORTH", "EAST", "SOUTH", "WEST"},
				},
				"commands": map[string]interface{}{
					"type":  "array",
					"items": map[string]interface{}{"type": "string"},
				},
			},
			Required: []string{"session_id", "x", "y", "facing", "commands"},
		},
	}, c.handleRun)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_robot",
		Description: "Remove the robot from the table and clear its history",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "report",
		Description: "Get the robot's report (x,y,FACING)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReport)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "command_history",
		Description: "Get paginated command history",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Entries per page (default 20, max 100)",
				},
				"order": map[string]interface{}{
					"type": "string",
					"enum": []string{"asc", "desc"},
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleCommandHistory)

	// Scenarios
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_scenarios",
		Description: "List available scenarios",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListScenarios)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_scenario",
		Description: "Run a scenario in a session and compare its report with the expected one",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"scenario": map[string]interface{}{
					"type":        "string",
					"description": "Scenario ID from list_scenarios",
				},
			},
			Required: []string{"session_id", "scenario"},
		},
	}, c.handleRunScenario)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "robot_instructions",
		Description: "Get the complete simulator rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleRobotInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// ServeStdio serves the MCP protocol on stdin/stdout until EOF
func (c *Client) ServeStdio() error {
	return server.ServeStdio(c.mcpServer)
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	endpoint := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, endpoint, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

func sessionPath(args map[string]interface{}, suffix string) string {
	sessionID, _ := args["session_id"].(string)
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func stringsArg(args map[string]interface{}, key string) []string {
	raw, _ := args[key].([]interface{})
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var session service.SessionInfo
	if err := c.apiCall("POST", "/api/sessions", nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Total    int                    `json:"total"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall("GET", "/api/sessions", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active sessions: %d\n\n", resp.Total)
	for _, s := range resp.Sessions {
		fmt.Fprintf(&b, "- %s | robot: %s | last access: %s\n",
			s.ID, stateReport(s.State), s.LastAccessedAt.Format("2006-01-02 15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	var session service.SessionInfo
	if err := c.apiCall("GET", sessionPath(args, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleRobotState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	var state engine.RobotState
	if err := c.apiCall("GET", sessionPath(args, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRobotState(&state)), nil
}

func (c *Client) handlePlace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	facing, _ := args["facing"].(string)
	if !okX || !okY || facing == "" {
		return mcp.NewToolResultError("x, y and facing are required"), nil
	}

	body := map[string]interface{}{"x": x, "y": y, "facing": facing}

	var result service.CommandResult
	if err := c.apiCall("POST", sessionPath(args, "/place"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCommandResult(&result)), nil
}

func (c *Client) handleCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	command, _ := args["command"].(string)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	var result service.CommandResult
	err := c.apiCall("POST", sessionPath(args, "/command"), map[string]string{"command": command}, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCommandResult(&result)), nil
}

func (c *Client) handleSequence(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	commands := stringsArg(args, "commands")
	if len(commands) == 0 {
		return mcp.NewToolResultError("commands must be a non-empty array of strings"), nil
	}

	var result service.SequenceResult
	err := c.apiCall("POST", sessionPath(args, "/sequence"), map[string]interface{}{"commands": commands}, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSequenceResult(&result)), nil
}

func (c *Client) handleRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	x, _ := intArg(args, "x")
	y, _ := intArg(args, "y")
	facing, _ := args["facing"].(string)

	body := service.RunRequest{X: x, Y: y, Facing: facing, Commands: stringsArg(args, "commands")}

	var result service.RunResult
	if err := c.apiCall("POST", sessionPath(args, "/run"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRunResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	var resp struct {
		Message string             `json:"message"`
		State   *engine.RobotState `json:"state"`
	}
	if err := c.apiCall("POST", sessionPath(args, "/reset"), nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(resp.Message + "\n\n" + formatRobotState(resp.State)), nil
}

func (c *Client) handleReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	var report service.ReportResult
	if err := c.apiCall("GET", sessionPath(args, "/report"), nil, &report); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !report.Placed {
		return mcp.NewToolResultText("No report: the robot has not been placed"), nil
	}
	return mcp.NewToolResultText(report.Report), nil
}

func (c *Client) handleCommandHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		params.Set("order", order)
	}

	path := sessionPath(args, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall("GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListScenarios(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var scenarios []service.ScenarioInfo
	if err := c.apiCall("GET", "/api/scenarios", nil, &scenarios); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(scenarios) == 0 {
		return mcp.NewToolResultText("No scenario files found. The built-in 'canonical' scenario is always available."), nil
	}

	var b strings.Builder
	b.WriteString("Available scenarios:\n\n")
	for _, s := range scenarios {
		fmt.Fprintf(&b, "- %s: %s (PLACE %s, %d commands", s.ScenarioID, s.Name, s.Placement, s.Commands)
		if s.ExpectReport != "" {
			fmt.Fprintf(&b, ", expects %s", s.ExpectReport)
		}
		b.WriteString(")\n")
		if s.Description != "" {
			fmt.Fprintf(&b, "  %s\n", s.Description)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleRunScenario(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	name, _ := args["scenario"].(string)
	if name == "" {
		return mcp.NewToolResultError("scenario is required"), nil
	}

	var result service.RunResult
	path := sessionPath(args, "/scenarios/"+url.PathEscape(name)+"/run")
	if err := c.apiCall("POST", path, nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRunResult(&result)), nil
}

func (c *Client) handleRobotInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Toy Robot Simulator - Complete Instructions

THE TABLE:
A square table of 5x5 units. Coordinates run from (0,0) in the SOUTH WEST
corner to (4,4) in the NORTH EAST corner. There are no obstructions.

COMMANDS:
- PLACE X,Y,F  Put the robot at X,Y facing F (NORTH, EAST, SOUTH or WEST).
               Use the 'place' or 'run' tool; PLACE lines inside a sequence are ignored.
- MOVE         Move one unit forward in the current direction.
- LEFT         Rotate 90 degrees counter-clockwise without moving.
- RIGHT        Rotate 90 degrees clockwise without moving.
- REPORT       Announce the robot as "X,Y,F".

RULES:
1. The first valid PLACE puts the robot on the table. Until then every other
   command is ignored and REPORT has no output.
2. A PLACE that is off the table (or has an unknown facing) is ignored. A
   robot already on the table stays where it was.
3. A MOVE that would make the robot fall off the table is ignored. The robot
   keeps its position and heading.
4. Unknown commands are ignored. Commands are case-insensitive.
5. The initial placement is the first successful PLACE since the last reset.

GRID LEGEND:
  ^ robot facing NORTH    > robot facing EAST
  v robot facing SOUTH    < robot facing WEST
  . empty cell
Row 4 (north) is printed at the top.

EXAMPLE:
  PLACE 0,0,NORTH
  MOVE
  RIGHT
  MOVE
  LEFT
  MOVE
  REPORT   ->  1,2,NORTH

TIPS:
- Use robot_state after a sequence to check the grid.
- A 'blocked' outcome means the robot is on an edge facing outwards.
- 'ignored' means the command was not recognised; 'unplaced' means there is no robot yet.

Good luck keeping your robot on the table!`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nCreated: %s\n\n%s",
		session.ID,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatRobotState(session.State))
}

func statePlacement(state *engine.RobotState) *engine.Placement {
	if state == nil || !state.Placed || state.Position == nil || state.Heading == nil {
		return nil
	}
	return &engine.Placement{Position: *state.Position, Heading: *state.Heading}
}

func stateReport(state *engine.RobotState) string {
	if p := statePlacement(state); p != nil {
		return p.String()
	}
	return "not placed"
}

func formatRobotState(state *engine.RobotState) string {
	if state == nil {
		return "No robot state available"
	}

	var b strings.Builder
	current := statePlacement(state)
	if current == nil {
		b.WriteString("Robot: not placed\n")
	} else {
		fmt.Fprintf(&b, "Robot: %s\n", current)
	}
	if state.InitialPlacement != nil {
		fmt.Fprintf(&b, "Initial placement: %s\n", state.InitialPlacement)
	}
	fmt.Fprintf(&b, "Commands recorded: %d\n\n", len(state.History))

	for _, row := range engine.RenderGrid(current) {
		b.WriteString(row + "\n")
	}
	return b.String()
}

func formatCommandResult(result *service.CommandResult) string {
	var b strings.Builder
	if result.Accepted {
		fmt.Fprintf(&b, "✓ %s\n", result.Message)
	} else {
		fmt.Fprintf(&b, "✗ %s\n", result.Message)
	}
	fmt.Fprintf(&b, "Command: %s\n\n", result.Command)
	b.WriteString(formatRobotState(result.State))
	return b.String()
}

func formatSequenceResult(result *service.SequenceResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Executed %d/%d commands, %d changed the robot\n\n",
		result.Executed, result.Requested, result.Changed)

	for _, step := range result.Steps {
		fmt.Fprintf(&b, "%d. %s %s -> %s [%s]\n",
			step.Idx, step.Command, placementOrDash(step.Before), placementOrDash(step.After), step.Outcome)
	}
	if result.Report != "" {
		fmt.Fprintf(&b, "\nLast report: %s\n", result.Report)
	}
	b.WriteString("\n")
	b.WriteString(formatRobotState(result.State))
	return b.String()
}

func formatRunResult(result *service.RunResult) string {
	var b strings.Builder
	if result.Scenario != "" {
		fmt.Fprintf(&b, "Scenario: %s\n", result.Scenario)
	}
	if result.Placed {
		fmt.Fprintf(&b, "Report: %s\n", result.Report)
	} else {
		b.WriteString("Report: none (robot never placed)\n")
	}
	if result.Matched != nil {
		if *result.Matched {
			fmt.Fprintf(&b, "✓ Matches expected %s\n", result.Expected)
		} else {
			fmt.Fprintf(&b, "✗ Expected %s\n", result.Expected)
		}
	}
	if len(result.Panes) > 0 {
		b.WriteString("\n" + strings.Join(result.Panes, "\n") + "\n")
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Command History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.Total)

	for _, entry := range history.Entries {
		fmt.Fprintf(&b, "%d. %s\n", entry.Index, entry.Command)
	}
	if len(history.Entries) == 0 {
		b.WriteString("(no commands recorded)\n")
	}
	return b.String()
}

func placementOrDash(p *engine.Placement) string {
	if p == nil {
		return "-"
	}
	return p.String()
}
