package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	nlerror "github.com/msto63/noloop/foundation/core/error"
)

var (
	errorLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	errorLocationStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#94A3B8"))
)

// printError writes err to w as "error[CODE] message" followed by the
// location of the offending token when the error carries one
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, formatError(err))
}

func formatError(err error) string {
	e, ok := nlerror.As(err)
	if !ok {
		return errorLabelStyle.Render("error") + " " + err.Error()
	}

	out := errorLabelStyle.Render(fmt.Sprintf("error[%s]", e.Code())) + " " + err.Error()
	if loc := location(e); loc != "" {
		out += "\n  " + errorLocationStyle.Render("at "+loc)
	}
	return out
}

// location renders file:line:column from the error details, omitting
// the parts that are missing
func location(e *nlerror.Error) string {
	file, hasFile := e.Detail("file")
	line, hasLine := e.Detail("line")
	column, hasColumn := e.Detail("column")

	var loc string
	if hasFile {
		loc = fmt.Sprint(file)
	}
	if hasLine {
		if loc != "" {
			loc += ":"
		}
		loc += fmt.Sprint(line)
		if hasColumn {
			loc += fmt.Sprintf(":%v", column)
		}
	}
	return loc
}
