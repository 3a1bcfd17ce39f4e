//go:build windows

package diag

import (
	"io"
	"os"

	"golang.org/x/sys/windows"
)

// isTerminal reports whether w is attached to a console
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	var mode uint32
	err := windows.GetConsoleMode(windows.Handle(f.Fd()), &mode)
	return err == nil
}
