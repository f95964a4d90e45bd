package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/toyrobot/game/engine"
	"github.com/wricardo/mcp-training/toyrobot/game/script"
	"golang.org/x/term"
)

func runAction(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("run: script file required (use - for stdin)")
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	return runScript(os.Stdout, string(data))
}

// runScript executes a script on a fresh robot and prints every REPORT
// output, the recorded history and the initial/final grids
func runScript(out io.Writer, text string) error {
	robot := engine.NewRobot()
	result := script.Run(robot, text)

	for _, report := range result.Reports {
		if report.Placed {
			fmt.Fprintln(out, report.Text)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "History:")
	for i, entry := range robot.History() {
		fmt.Fprintf(out, "%3d. %s\n", i+1, entry)
	}
	if len(result.Unparsed) > 0 {
		fmt.Fprintf(out, "Ignored lines: %v\n", result.Unparsed)
	}

	fmt.Fprintln(out)
	for _, line := range engine.RenderPanes(robot) {
		fmt.Fprintln(out, line)
	}
	return nil
}

func replAction(ctx context.Context, cmd *cli.Command) error {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	return repl(os.Stdin, os.Stdout, interactive)
}

// repl feeds stdin line by line to one robot. GRID and HISTORY print the
// panes and history; QUIT or EOF ends the session. The prompt is only
// written when stdin is a terminal.
func repl(in io.Reader, out io.Writer, interactive bool) error {
	robot := engine.NewRobot()
	scanner := bufio.NewScanner(in)

	if interactive {
		fmt.Fprintf(out, "%s v%s. Commands: PLACE X,Y,F MOVE LEFT RIGHT REPORT GRID HISTORY QUIT\n", AppName, Version)
	}

	for {
		if interactive {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch strings.ToUpper(line) {
		case "":
			continue
		case "QUIT", "EXIT":
			return nil
		case "GRID":
			for _, row := range engine.RenderPanes(robot) {
				fmt.Fprintln(out, row)
			}
			continue
		case "HISTORY":
			for i, entry := range robot.History() {
				fmt.Fprintf(out, "%3d. %s\n", i+1, entry)
			}
			continue
		}

		result := script.Run(robot, line)
		for _, report := range result.Reports {
			if report.Placed {
				fmt.Fprintln(out, report.Text)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}
