package unlocker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"medallion/internal/library"
)

// ErrProcess marks companion-process faults: start failures, timeouts, and
// explicit ERR replies. Callers surface these per app and keep going.
var ErrProcess = errors.New("unlocker process fault")

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (stdout string, err error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps the companion unlock executable. The protocol is a black
// box: one invocation per app, the last stdout line carries the result.
// Invocations are serialized: the companion shares emulator state and must
// never run concurrently with itself.
type Client struct {
	binary          string
	progressTimeout time.Duration
	unlockTimeout   time.Duration
	exec            Executor

	mu sync.Mutex
}

// New constructs a companion-process client.
func New(binary string, progressTimeoutSeconds, unlockTimeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("unlocker binary required")
	}
	client := &Client{
		binary:          binary,
		progressTimeout: time.Duration(progressTimeoutSeconds) * time.Second,
		unlockTimeout:   time.Duration(unlockTimeoutSeconds) * time.Second,
		exec:            commandExecutor{},
	}
	if client.progressTimeout <= 0 {
		client.progressTimeout = 25 * time.Second
	}
	if client.unlockTimeout <= 0 {
		client.unlockTimeout = 45 * time.Second
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// FetchProgress asks the companion process for one app's achievement
// counts. Implements the ProgressSource contract for the sequential scan
// path.
func (c *Client) FetchProgress(ctx context.Context, _ uint64, appID uint32) (int, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	runCtx, cancel := context.WithTimeout(ctx, c.progressTimeout)
	defer cancel()

	out, err := c.exec.Run(runCtx, c.binary, []string{"--achievement-progress", formatAppID(appID)})
	if err != nil {
		return library.UnknownProgress, library.UnknownProgress,
			fmt.Errorf("%w: app %d: %w", ErrProcess, appID, err)
	}

	line, err := lastLine(out)
	if err != nil {
		return library.UnknownProgress, library.UnknownProgress,
			fmt.Errorf("%w: app %d: %w", ErrProcess, appID, err)
	}
	if reason, isErr := strings.CutPrefix(line, "ERR"); isErr {
		return library.UnknownProgress, library.UnknownProgress,
			fmt.Errorf("%w: app %d: %s", ErrProcess, appID, strings.TrimSpace(reason))
	}

	fields := strings.Fields(line)
	if len(fields) != 2 {
		return library.UnknownProgress, library.UnknownProgress,
			fmt.Errorf("%w: app %d: unexpected reply %q", ErrProcess, appID, line)
	}
	unlocked, err1 := strconv.Atoi(fields[0])
	total, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return library.UnknownProgress, library.UnknownProgress,
			fmt.Errorf("%w: app %d: unexpected reply %q", ErrProcess, appID, line)
	}
	return unlocked, total, nil
}

// Name identifies the companion path in logs and fallback decisions.
func (c *Client) Name() string { return "unlocker" }

// UnlockResult reports one app's unlock-all outcome.
type UnlockResult struct {
	Changed          int
	SkippedProtected int
	Unlocked         int
	Total            int
}

// UnlockAll asks the companion process to unlock every achievement for one
// app.
func (c *Client) UnlockAll(ctx context.Context, appID uint32) (UnlockResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	runCtx, cancel := context.WithTimeout(ctx, c.unlockTimeout)
	defer cancel()

	out, err := c.exec.Run(runCtx, c.binary, []string{"--unlock-all", formatAppID(appID)})
	if err != nil {
		return UnlockResult{}, fmt.Errorf("%w: app %d: %w", ErrProcess, appID, err)
	}

	line, err := lastLine(out)
	if err != nil {
		return UnlockResult{}, fmt.Errorf("%w: app %d: %w", ErrProcess, appID, err)
	}
	if reason, isErr := strings.CutPrefix(line, "ERR"); isErr {
		return UnlockResult{}, fmt.Errorf("%w: app %d: %s", ErrProcess, appID, strings.TrimSpace(reason))
	}

	fields := strings.Fields(line)
	if len(fields) != 5 || fields[0] != "OK" {
		return UnlockResult{}, fmt.Errorf("%w: app %d: unexpected reply %q", ErrProcess, appID, line)
	}
	values := make([]int, 4)
	for i, field := range fields[1:] {
		value, convErr := strconv.Atoi(field)
		if convErr != nil {
			return UnlockResult{}, fmt.Errorf("%w: app %d: unexpected reply %q", ErrProcess, appID, line)
		}
		values[i] = value
	}
	return UnlockResult{
		Changed:          values[0],
		SkippedProtected: values[1],
		Unlocked:         values[2],
		Total:            values[3],
	}, nil
}

func lastLine(out string) (string, error) {
	lines := strings.Split(strings.ReplaceAll(out, "\r\n", "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line, nil
		}
	}
	return "", errors.New("empty reply")
}

func formatAppID(appID uint32) string {
	return strconv.FormatUint(uint64(appID), 10)
}

type commandExecutor struct{}

// Run executes the binary and collects stdout. Context expiry kills the
// child; exec.CommandContext delivers SIGKILL once the deadline passes.
func (commandExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = nil

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("timed out: %w", ctxErr)
		}
		return "", fmt.Errorf("run %s: %w", binary, err)
	}
	return stdout.String(), nil
}
