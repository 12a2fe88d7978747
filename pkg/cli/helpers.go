package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const clearSequence = "\x1b[H\x1b[2J"

// ClearScreen wipes the terminal. Piped output is left untouched.
func ClearScreen() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}

	clearTo(os.Stdout)
}

func clearTo(w io.Writer) {
	if _, err := fmt.Fprint(w, clearSequence); err != nil {
		Errorln(fmt.Sprintf("Could not clear screen. Error: %s", err.Error()))
	}
}
