package script

import (
	"strings"

	"github.com/wricardo/mcp-training/toyrobot/game/engine"
)

// Report is the output of one REPORT line
type Report struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Placed bool   `json:"placed"`
}

// RunResult summarizes a script run
type RunResult struct {
	Lines    int      `json:"lines"`
	Executed int      `json:"executed"`
	Reports  []Report `json:"reports"`
	// Unparsed holds 1-based line numbers the grammar did not understand.
	// Those lines were still handed to the robot, which ignored them.
	Unparsed []int `json:"unparsed,omitempty"`
}

// Run executes a newline-separated script against the robot. It never
// fails: malformed lines are recorded in the history and otherwise ignored.
func Run(robot *engine.Robot, text string) *RunResult {
	result := &RunResult{Reports: []Report{}}

	for i, raw := range strings.Split(text, "\n") {
		result.Lines++
		line := stripComment(raw)
		if line == "" {
			continue
		}
		result.Executed++

		parsed, err := ParseLine(line)
		if err != nil {
			result.Unparsed = append(result.Unparsed, i+1)
			robot.ExecuteCommand(line)
			continue
		}

		switch parsed.Keyword() {
		case engine.CmdPlace:
			applyPlace(robot, parsed.Place, line)
		case engine.CmdReport:
			robot.ExecuteCommand(line)
			text, ok := robot.Report()
			result.Reports = append(result.Reports, Report{Line: i + 1, Text: text, Placed: ok})
		default:
			robot.ExecuteCommand(line)
		}
	}

	return result
}

func applyPlace(robot *engine.Robot, p *Place, line string) {
	heading, ok := engine.ParseHeading(p.Facing)
	if !ok {
		robot.Record(line)
		return
	}
	robot.Place(p.X, p.Y, heading)
	robot.Record(engine.FormatPlace(p.X, p.Y, heading))
}
