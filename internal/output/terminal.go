package output

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"golang.org/x/term"
)

var highlight = color.New(color.FgBlack, color.BgHiCyan).SprintFunc()

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// Progress prints a status line with a highlighted count.
func Progress(w io.Writer, message string, count int) {
	fmt.Fprintf(w, "%s %s\n", message, highlight(count))
}

// Bell rings the terminal bell when w is a terminal.
func Bell(w io.Writer) {
	if !IsTerminal(w) {
		return
	}
	_, _ = io.WriteString(w, "\a")
}

// Copier places text on the system clipboard.
type Copier interface {
	Copy(text string) error
}

type SystemClipboard struct{}

var ErrClipboardUnsupported = errors.New("clipboard is not available on this system")

func (SystemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}
