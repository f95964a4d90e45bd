// Package service provides the business logic layer for the toy robot simulator.
//
// The service package implements:
//   - Multi-session robot management
//   - Placement, single commands and command sequences
//   - Scenario listing, loading and execution
//   - Command history pagination
//   - Audit records for every executed operation
//
// Core Interfaces:
//
// SimulatorService is the main service interface providing high-level robot operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ScenarioManager loads and stores scenario files.
// AuditSink receives one record per mutating operation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the robot engine. The engine never fails: invalid placements, unknown
// commands and moves off the table are silently ignored. The service compares
// the robot before and after each command and reports what happened
// (Accepted, Changed, per-step outcomes) without turning any of it into an error.
// Errors returned by the service are limited to unknown sessions and scenarios.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	scenarioMgr, _ := config.NewManager("scenarios")
//	svc := service.NewSimulatorService(sessionMgr, scenarioMgr, audit.NewWriter("audit", "audit"))
//
//	info, err := svc.CreateSession(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	_, _ = svc.Place(ctx, info.ID, service.PlaceRequest{X: 0, Y: 0, Facing: "NORTH"})
//	_, _ = svc.Sequence(ctx, info.ID, []string{"MOVE", "RIGHT", "MOVE", "REPORT"})
//
// Session Management:
//
// Sessions are identified by unique 4-character IDs and own exactly one robot.
// Sessions track creation and last access time.
package service
