// Command validate provides a small CLI that validates scenario files in the
// ../scenarios directory (or the directory given as the first argument). It checks:
//   - YAML/JSON structure against the scenario schema
//   - Required fields and a known facing
//   - Whether the placement is on the table (off-table placements are warned about)
//   - Command tokens (unknown ones are warned about; the robot ignores them)
//   - The expected report, by replaying the scenario on a fresh robot
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/toyrobot/game/config"
	"github.com/wricardo/mcp-training/toyrobot/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// validateScenario loads and validates a single scenario file. Schema
// problems stop validation early; replay problems are reported together.
func validateScenario(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")
	scenario, err := config.DecodeScenario(data, format)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	// Placement bounds
	heading, _ := engine.ParseHeading(scenario.Placement.Facing)
	placement := engine.FormatPlace(scenario.Placement.X, scenario.Placement.Y, heading)
	if !engine.ValidPlacement(scenario.Placement.X, scenario.Placement.Y, heading) {
		result.warn("%s is off the table; the robot stays unplaced", placement)
	}

	// Command tokens
	unknown := 0
	for i, cmd := range scenario.Commands {
		token := engine.NormalizeCommand(cmd)
		if !engine.IsMotionCommand(token) && token != engine.CmdReport {
			unknown++
			result.warn("Command %d %q is not recognised and will be ignored", i+1, cmd)
		}
	}

	// Replay
	robot, err := engine.RunScenario(scenario)
	if err != nil {
		result.fail("Replay failed: %v", err)
		return result
	}
	report, placed := robot.Report()
	if scenario.ExpectReport != "" {
		switch {
		case !placed:
			result.fail("Expected report %s but the robot was never placed", scenario.ExpectReport)
		case report != scenario.ExpectReport:
			result.fail("Expected report %s, replay produced %s", scenario.ExpectReport, report)
		}
	}

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", scenario.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Placement: %s", placement))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Commands: %d (%d unknown)", len(scenario.Commands), unknown))
		if placed {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Final report: %s", report))
		} else {
			result.Errors = append(result.Errors, "✓ Final report: none")
		}
		if scenario.ExpectReport != "" {
			result.Errors = append(result.Errors, "✓ Matches expect_report")
		}
	}

	return result
}

// scenarioFiles lists the YAML and JSON files in dir
func scenarioFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml", "*.json"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

// printResult writes the report for one file
func printResult(result ValidationResult) {
	fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

	if result.Valid {
		fmt.Println("✅ VALID")
		for _, info := range result.Errors {
			fmt.Println("  " + info)
		}
	} else {
		fmt.Println("❌ INVALID")
		for _, err := range result.Errors {
			if !strings.HasPrefix(err, "✓") {
				fmt.Println("  ❌ " + err)
			}
		}
	}
	for _, w := range result.Warnings {
		fmt.Println("  ⚠️  " + w)
	}
}

// main scans the scenario directory and validates each file, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	scenarioDir := "../scenarios"
	if len(os.Args) > 1 {
		scenarioDir = os.Args[1]
	}

	files, err := scenarioFiles(scenarioDir)
	if err != nil {
		fmt.Printf("Error finding scenario files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No scenario files found in %s\n", scenarioDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateScenario(file)
		printResult(result)
		if !result.Valid {
			allValid = false
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Printf("✅ All %d scenarios are valid!\n", len(files))
	} else {
		fmt.Println("❌ Some scenarios have errors")
		os.Exit(1)
	}
}
