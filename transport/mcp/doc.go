// Package mcp exposes the toy robot simulator as a Model Context Protocol server.
//
// The Client is a thin proxy: every tool call is translated into a REST call
// against a running api.Server and the JSON response is rendered as text for
// the agent (reports, step traces, ASCII grids).
//
// MCP Tools:
//   - create_session, list_sessions, get_session
//   - robot_state: placement, initial placement, history size and grid
//   - place, command, sequence, run, reset_robot, report
//   - command_history: paginated history
//   - list_scenarios, run_scenario
//   - robot_instructions: complete rules
//
// Transport Modes:
//   - Stdio: Client.ServeStdio for local MCP clients
//   - HTTP: main mounts GetMCPServer().HandleMessage on /mcp
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := client.ServeStdio(); err != nil {
//		log.Fatal(err)
//	}
package mcp
