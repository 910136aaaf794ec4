package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// If glamour cannot be initialised the markdown is returned as is.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(72),
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// HelpMarkdown is the REPL help shown in terminal mode.
const HelpMarkdown = `# Abacus

Type keys and press **enter**. A line is applied as a whole, or not at all.

| Key | Effect |
| --- | --- |
| ` + "`0-9`" + ` | enter a digit |
| ` + "`.`" + ` | decimal point |
| ` + "`+ - * /`" + ` | choose an operator (chains the pending one) |
| ` + "`=`" + ` | compute, press again to repeat the last operation |
| ` + "`C`" + ` | clear |

Example: ` + "`12.5 * 4 =`" + ` shows **50**. Type ` + "`quit`" + ` to leave.
`

// RenderHelp renders HelpMarkdown, falling back to the raw text on error.
func RenderHelp(render func(string) (string, error)) string {
	out, err := render(HelpMarkdown)
	if err != nil {
		return HelpMarkdown
	}
	return out
}
