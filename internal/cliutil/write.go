// Package cliutil holds the output helpers shared by the oasir commands.
package cliutil

import (
	"fmt"
	"io"
	"os"
)

// Writef formats to w. A failed write is reported on os.Stderr rather than
// returned, since the commands have nowhere better to send it.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "oasir: write failed: %v\n", err)
	}
}
