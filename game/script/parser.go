package script

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Line is one parsed script command
type Line struct {
	Place   *Place  `parser:"  'PLACE' @@"`
	Command *string `parser:"| @('MOVE' | 'LEFT' | 'RIGHT' | 'REPORT')"`
}

// Place carries the arguments of "PLACE X,Y,F"
type Place struct {
	X      int    `parser:"@Int ','"`
	Y      int    `parser:"@Int ','"`
	Facing string `parser:"@Ident"`
}

var scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Int", Pattern: `-?\d+`},
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "Punct", Pattern: `,`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
})

var parser = participle.MustBuild[Line](
	participle.Lexer(scriptLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.CaseInsensitive("Ident"),
)

// ParseLine parses a single command line
func ParseLine(line string) (*Line, error) {
	return parser.ParseString("line", line)
}

// Keyword returns the upper-cased command keyword of the line
func (l *Line) Keyword() string {
	switch {
	case l.Place != nil:
		return "PLACE"
	case l.Command != nil:
		return strings.ToUpper(*l.Command)
	}
	return ""
}

// stripComment drops a trailing "# ..." and surrounding whitespace
func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
