//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !windows

package diag

import "io"

func isTerminal(io.Writer) bool { return false }
