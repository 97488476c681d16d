package unlocker

import (
	"context"
	"errors"
	"testing"

	"medallion/internal/library"
)

type fakeExecutor struct {
	stdout  string
	err     error
	gotArgs []string
}

func (f *fakeExecutor) Run(_ context.Context, _ string, args []string) (string, error) {
	f.gotArgs = args
	return f.stdout, f.err
}

func newFakeClient(t *testing.T, exec Executor) *Client {
	t.Helper()
	client, err := New("companion-unlock", 25, 45, WithExecutor(exec))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := New("  ", 25, 45); err == nil {
		t.Error("expected error for empty binary")
	}
}

func TestFetchProgressParsesLastLine(t *testing.T) {
	exec := &fakeExecutor{stdout: "starting up\nloading schema\n12 50\n"}
	client := newFakeClient(t, exec)

	unlocked, total, err := client.FetchProgress(context.Background(), 0, 440)
	if err != nil {
		t.Fatalf("FetchProgress failed: %v", err)
	}
	if unlocked != 12 || total != 50 {
		t.Errorf("progress = %d/%d, want 12/50", unlocked, total)
	}
	if len(exec.gotArgs) != 2 || exec.gotArgs[0] != "--achievement-progress" || exec.gotArgs[1] != "440" {
		t.Errorf("args = %v", exec.gotArgs)
	}
}

func TestFetchProgressErrReply(t *testing.T) {
	client := newFakeClient(t, &fakeExecutor{stdout: "ERR schema unavailable\n"})

	unlocked, total, err := client.FetchProgress(context.Background(), 0, 10)
	if !errors.Is(err, ErrProcess) {
		t.Errorf("want process fault, got %v", err)
	}
	if unlocked != library.UnknownProgress || total != library.UnknownProgress {
		t.Errorf("failed fetch must report unknown, got %d/%d", unlocked, total)
	}
}

func TestFetchProgressStartFailure(t *testing.T) {
	client := newFakeClient(t, &fakeExecutor{err: errors.New("executable not found")})

	_, _, err := client.FetchProgress(context.Background(), 0, 10)
	if !errors.Is(err, ErrProcess) {
		t.Errorf("want process fault, got %v", err)
	}
}

func TestFetchProgressGarbledReply(t *testing.T) {
	for _, stdout := range []string{"", "one two three\n", "abc def\n"} {
		client := newFakeClient(t, &fakeExecutor{stdout: stdout})
		if _, _, err := client.FetchProgress(context.Background(), 0, 10); !errors.Is(err, ErrProcess) {
			t.Errorf("stdout %q: want process fault, got %v", stdout, err)
		}
	}
}

func TestUnlockAllParsesResult(t *testing.T) {
	exec := &fakeExecutor{stdout: "working...\nOK 7 2 48 50\n"}
	client := newFakeClient(t, exec)

	result, err := client.UnlockAll(context.Background(), 620)
	if err != nil {
		t.Fatalf("UnlockAll failed: %v", err)
	}
	want := UnlockResult{Changed: 7, SkippedProtected: 2, Unlocked: 48, Total: 50}
	if result != want {
		t.Errorf("result = %+v, want %+v", result, want)
	}
	if len(exec.gotArgs) != 2 || exec.gotArgs[0] != "--unlock-all" || exec.gotArgs[1] != "620" {
		t.Errorf("args = %v", exec.gotArgs)
	}
}

func TestUnlockAllErrReply(t *testing.T) {
	client := newFakeClient(t, &fakeExecutor{stdout: "ERR protected title\n"})

	_, err := client.UnlockAll(context.Background(), 10)
	if !errors.Is(err, ErrProcess) {
		t.Errorf("want process fault, got %v", err)
	}
}

func TestUnlockAllRejectsShortReply(t *testing.T) {
	client := newFakeClient(t, &fakeExecutor{stdout: "OK 7 2\n"})

	_, err := client.UnlockAll(context.Background(), 10)
	if !errors.Is(err, ErrProcess) {
		t.Errorf("want process fault, got %v", err)
	}
}
