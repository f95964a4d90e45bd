// Package engine provides the core state machine for the toy robot simulator.
//
// The engine package implements:
//   - A 5x5 zero-indexed grid with boundary clamping
//   - Placement, movement and rotation of a single robot
//   - Text reporting of position and heading
//   - An append-only command history and a first-placement snapshot
//
// Core Types:
//
// Robot implements the Engine interface. Heading is a fixed cyclic
// enumeration (NORTH, EAST, SOUTH, WEST) rotated with modulo-4 arithmetic.
// Position and Placement describe where the robot is; RobotState is a
// serializable snapshot used by the outer layers.
//
// Usage:
//
//	robot := engine.NewRobot()
//	robot.Place(0, 0, engine.North)
//	robot.ExecuteSequence([]string{"MOVE", "RIGHT", "MOVE", "LEFT", "MOVE"})
//	report, ok := robot.Report() // "1,2,NORTH", true
//
// Rules:
//
// Commands issued before a valid placement are ignored. Placements off the
// grid, moves that would fall off the grid, and unknown commands are all
// silently dropped; none of them is an error. Reset returns the robot to
// its unplaced state and forgets the history and the initial placement.
package engine
