package transcribe

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

const maxLineBytes = 1024 * 1024

// Executor abstracts command execution for testability.
//
// Run starts binary with args and invokes onStderr for every diagnostic line
// on the calling goroutine. Stdout lines are delivered to onStdout from a
// helper goroutine. Run returns once the process has exited and both pipes
// are drained.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStderr, onStdout func(string)) error
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStderr, onStdout func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		drain(stdout, onStdout)
	}()

	scanErr := forwardLines(stderr, onStderr)
	if scanErr != nil {
		_ = cmd.Process.Kill()
		_, _ = io.Copy(io.Discard, stderr)
	}
	wg.Wait()

	waitErr := cmd.Wait()
	if scanErr != nil {
		return fmt.Errorf("scan stderr: %w", scanErr)
	}
	if waitErr != nil {
		return fmt.Errorf("wait command: %w", waitErr)
	}
	return nil
}

func forwardLines(r io.Reader, forward func(string)) error {
	scanner := newLineScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || forward == nil {
			continue
		}
		forward(line)
	}
	return scanner.Err()
}

// drain forwards what it can and discards the remainder so the child never
// blocks writing to a full pipe.
func drain(r io.Reader, forward func(string)) {
	if err := forwardLines(r, forward); err != nil {
		_, _ = io.Copy(io.Discard, r)
	}
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	scanner.Split(scanTerminalLines)
	return scanner
}

// scanTerminalLines splits on either '\n' or '\r'. Progress bars redraw in
// place with carriage returns and would otherwise arrive only at exit.
func scanTerminalLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
