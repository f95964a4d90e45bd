// Package config loads scenarios and server settings for the toy robot simulator.
//
// The config package handles:
//   - Loading scenario files from a directory (.yaml, .yml or .json)
//   - Schema validation of every scenario document
//   - Default scenario management
//   - Scenario discovery, listing and saving
//   - Server settings from an optional YAML file
//
// Scenario Format:
//
// A scenario is a starting placement plus a list of raw commands, with an
// optional expected report:
//
//	name: canonical
//	description: Zig-zag up from the origin
//	placement: {x: 0, y: 0, facing: NORTH}
//	commands: [MOVE, RIGHT, MOVE, LEFT, MOVE]
//	expect_report: 1,2,NORTH
//
// Documents are checked against an embedded JSON Schema before they are
// decoded. Off-grid placements and unknown commands are valid: replaying them
// exercises the robot's ignore rules.
//
// Usage:
//
//	manager, err := config.NewManager("scenarios")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	scenario, err := manager.LoadScenario("canonical")
//	infos, err := manager.ListScenarios()
//	err = manager.SaveScenario("spin", &engine.Scenario{...})
//
// The default scenario is canonical.* from the directory when present and the
// built-in canonical run otherwise.
package config
