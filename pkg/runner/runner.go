// Package runner executes the external dependency-check command and hands
// its standard output back line by line.
package runner

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sambabib/depnotify/pkg/logger"
)

const (
	// DefaultTimeout bounds a single scan command
	DefaultTimeout = 10 * time.Minute

	maxLineSize   = 1024 * 1024
	maxStderrTail = 4096
	waitDelay     = 5 * time.Second
)

// Command is an argument vector; it is never passed through a shell.
type Command struct {
	Name string
	Args []string
	Dir  string
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// MavenUpdatesCommand builds the versions-plugin invocation for the project in projectDir.
func MavenUpdatesCommand(mvn, projectDir string, extraArgs ...string) Command {
	args := []string{"-f", filepath.Join(projectDir, "pom.xml"), "versions:display-dependency-updates"}
	args = append(args, extraArgs...)
	return Command{Name: mvn, Args: args, Dir: projectDir}
}

// Runner runs a command and returns its standard output lines in emission order.
type Runner interface {
	Run(ctx context.Context, cmd Command) ([]string, error)
}

// CommandFailed is returned when the command cannot be spawned, exits
// non-zero, or outlives its deadline.
type CommandFailed struct {
	Command Command
	Stderr  string
	Err     error
}

func (e *CommandFailed) Error() string {
	msg := fmt.Sprintf("command %q failed: %v", e.Command.String(), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandFailed) Unwrap() error {
	return e.Err
}

// Exec runs commands as child processes on the local host.
type Exec struct {
	Timeout time.Duration
}

// NewExec creates an Exec runner; a zero timeout means DefaultTimeout.
func NewExec(timeout time.Duration) *Exec {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Exec{Timeout: timeout}
}

// Run collects every stdout line of cmd.
func (r *Exec) Run(ctx context.Context, cmd Command) ([]string, error) {
	var lines []string
	err := r.Stream(ctx, cmd, func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// Stream calls fn for each stdout line of cmd. Stdout is drained completely
// before the process is waited on.
func (r *Exec) Stream(ctx context.Context, cmd Command, fn func(line string)) error {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.WaitDelay = waitDelay
	stderr := &tailBuffer{limit: maxStderrTail}
	c.Stderr = stderr

	stdout, err := c.StdoutPipe()
	if err != nil {
		return &CommandFailed{Command: cmd, Err: err}
	}

	logger.Debugf("Runner: starting %s in %s", cmd.String(), cmd.Dir)
	if err := c.Start(); err != nil {
		return &CommandFailed{Command: cmd, Err: err}
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		fn(scanner.Text())
	}
	scanErr := scanner.Err()
	if scanErr != nil {
		// keep draining so the child never blocks on a full pipe
		_, _ = io.Copy(io.Discard, stdout)
	}

	waitErr := c.Wait()
	switch {
	case ctx.Err() != nil:
		return &CommandFailed{Command: cmd, Stderr: stderr.String(), Err: ctx.Err()}
	case waitErr != nil:
		return &CommandFailed{Command: cmd, Stderr: stderr.String(), Err: waitErr}
	case scanErr != nil:
		return &CommandFailed{Command: cmd, Stderr: stderr.String(), Err: fmt.Errorf("reading output: %w", scanErr)}
	}
	return nil
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.Write(p)
	if over := t.buf.Len() - t.limit; over > 0 {
		t.buf.Next(over)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.TrimSpace(t.buf.String())
}
