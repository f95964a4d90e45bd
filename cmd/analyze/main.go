// Command analyze prints quick, human-readable traces of scenario files and
// summaries of audit logs. For each scenario it shows every command with the
// placement before and after and what happened, then the initial and final
// grids. With --audit-dir it also counts recorded operations per session.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/toyrobot/game/audit"
	"github.com/wricardo/mcp-training/toyrobot/game/config"
	"github.com/wricardo/mcp-training/toyrobot/game/engine"
	"github.com/wricardo/mcp-training/toyrobot/game/service"
	"github.com/wricardo/mcp-training/toyrobot/game/session"
)

func main() {
	app := &cli.Command{
		Name:      "analyze",
		Usage:     "Trace scenarios and summarize audit logs",
		ArgsUsage: "[SCENARIO...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "scenarios-dir",
				Value:   "scenarios",
				Usage:   "Directory containing scenario files",
				Sources: cli.EnvVars("TOYROBOT_SCENARIOS_DIR"),
			},
			&cli.StringFlag{
				Name:    "audit-dir",
				Usage:   "Directory with audit logs to summarize",
				Sources: cli.EnvVars("TOYROBOT_AUDIT_DIR"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := analyzeScenarios(ctx, os.Stdout, cmd.String("scenarios-dir"), cmd.Args().Slice()); err != nil {
				return err
			}
			if dir := cmd.String("audit-dir"); dir != "" {
				return summarizeAudit(os.Stdout, dir)
			}
			return nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
}

// analyzeScenarios traces the named scenarios, or every scenario in dir
// when names is empty
func analyzeScenarios(ctx context.Context, out io.Writer, dir string, names []string) error {
	scenarios, err := config.NewManager(dir)
	if err != nil {
		return err
	}
	svc := service.NewSimulatorService(session.NewManager(), scenarios, nil)

	if len(names) == 0 {
		infos, err := scenarios.ListScenarios()
		if err != nil {
			return err
		}
		for _, info := range infos {
			names = append(names, info.ScenarioID)
		}
	}

	for _, name := range names {
		fmt.Fprintf(out, "\n=== Analyzing %s ===\n", name)
		if err := traceScenario(ctx, out, svc, name); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
	return nil
}

// traceScenario replays one scenario step by step through the simulator
// service, then cross-checks the final report against a direct engine run
func traceScenario(ctx context.Context, out io.Writer, svc service.SimulatorService, name string) error {
	scenario, err := svc.LoadScenario(ctx, name)
	if err != nil {
		return err
	}

	info, err := svc.CreateSession(ctx)
	if err != nil {
		return err
	}
	defer svc.DeleteSession(ctx, info.ID)

	fmt.Fprintf(out, "Name: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", scenario.Description)
	}

	placed, err := svc.Place(ctx, info.ID, service.PlaceRequest{
		X:      scenario.Placement.X,
		Y:      scenario.Placement.Y,
		Facing: scenario.Placement.Facing,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  0. %-16s %s\n", placed.Command, placed.Message)

	seq, err := svc.Sequence(ctx, info.ID, scenario.Commands)
	if err != nil {
		return err
	}
	outcomes := map[string]int{}
	for _, step := range seq.Steps {
		outcomes[step.Outcome]++
		fmt.Fprintf(out, "%3d. %-16s %-10s -> %-10s %s\n",
			step.Idx, step.Command, placementOrDash(step.Before), placementOrDash(step.After), step.Outcome)
	}
	fmt.Fprintf(out, "Outcomes: %s\n", formatCounts(outcomes))

	report, err := svc.Report(ctx, info.ID)
	if err != nil {
		return err
	}

	robot, err := engine.RunScenario(scenario)
	if err != nil {
		return err
	}
	direct, _ := robot.Report()
	if direct != report.Report {
		fmt.Fprintf(out, "⚠️  Service report %q differs from engine replay %q\n", report.Report, direct)
	}

	switch {
	case !report.Placed:
		fmt.Fprintln(out, "Final report: none (robot never placed)")
	default:
		fmt.Fprintf(out, "Final report: %s\n", report.Report)
	}
	if scenario.ExpectReport != "" {
		if report.Report == scenario.ExpectReport {
			fmt.Fprintf(out, "✅ Matches expected %s\n", scenario.ExpectReport)
		} else {
			fmt.Fprintf(out, "❌ Expected %s\n", scenario.ExpectReport)
		}
	}

	fmt.Fprintln(out)
	for _, line := range engine.RenderPanes(robot) {
		fmt.Fprintln(out, line)
	}
	return nil
}

// summarizeAudit counts audit records per operation and per session
func summarizeAudit(out io.Writer, dir string) error {
	files, err := audit.Files(dir, "audit")
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n=== Audit log %s (%d files) ===\n", dir, len(files))

	ops := map[string]int{}
	sessions := map[string]int{}
	lastReport := map[string]string{}
	total := 0

	for _, file := range files {
		entries, err := audit.DecodeFile[service.AuditEntry](file)
		if err != nil {
			fmt.Fprintf(out, "Error reading %s: %v\n", file, err)
			continue
		}
		for _, e := range entries {
			total++
			ops[e.Op]++
			sessions[e.SessionID]++
			if e.Placed {
				lastReport[e.SessionID] = e.Report
			} else {
				lastReport[e.SessionID] = ""
			}
		}
	}

	fmt.Fprintf(out, "Records: %d\n", total)
	fmt.Fprintf(out, "Operations: %s\n", formatCounts(ops))
	fmt.Fprintf(out, "Sessions: %d\n", len(sessions))

	ids := make([]string, 0, len(sessions))
	for id := range sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		report := lastReport[id]
		if report == "" {
			report = "unplaced"
		}
		fmt.Fprintf(out, "   %s: %d records, last %s\n", id, sessions[id], report)
	}
	return nil
}

// formatCounts renders "a=1 b=2" with keys sorted
func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

func placementOrDash(p *engine.Placement) string {
	if p == nil {
		return "-"
	}
	return p.String()
}
