package console

import (
	"io"
	"os"
	"sync"
)

// Terminal serializes writes from the shell goroutine and the event loop.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
}

// NewTerminal writes to standard output.
func NewTerminal() *Terminal {
	return NewTerminalFor(os.Stdout)
}

// NewTerminalFor writes to out.
func NewTerminalFor(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.out.Write(p)
}
