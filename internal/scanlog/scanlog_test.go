package scanlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRedactStripsKeyValue(t *testing.T) {
	in := "fetch failed: https://api.test/owned?key=SECRET123&steamid=1"
	out := Redact(in)

	if strings.Contains(out, "SECRET123") {
		t.Errorf("secret leaked: %s", out)
	}
	if !strings.Contains(out, "key=***") {
		t.Errorf("placeholder missing: %s", out)
	}
	if !strings.Contains(out, "steamid=1") {
		t.Errorf("non-credential parameter mangled: %s", out)
	}
}

func TestRedactRepeatsUntilClean(t *testing.T) {
	in := "a key=ONE&x=1 then key=TWO and sessionid=abc&k=2 and steamLoginSecure=tok"
	out := Redact(in)

	for _, secret := range []string{"ONE", "TWO", "abc", "tok"} {
		if strings.Contains(out, secret) {
			t.Errorf("secret %q leaked: %s", secret, out)
		}
	}
	if strings.Count(out, "key=***") != 2 {
		t.Errorf("expected two key placeholders: %s", out)
	}
	if !strings.Contains(out, "k=2") {
		t.Errorf("unrelated parameter mangled: %s", out)
	}
}

func TestRedactValueRunsToEndOfString(t *testing.T) {
	out := Redact("url?key=TRAILINGSECRET")
	if out != "url?key=***" {
		t.Errorf("got %q", out)
	}
}

func TestRedactLeavesCleanMessages(t *testing.T) {
	in := "App 440: progress 3/10"
	if out := Redact(in); out != in {
		t.Errorf("clean message altered: %q", out)
	}
}

func TestLoggerWritesRedactedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.log")
	logger, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer logger.Close()

	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	logger.now = func() time.Time { return fixed }

	logger.AppEvent(440, "web api failed: %s", "https://api.test/?key=HUSH&appid=440")
	logger.Event("scan finished: %d apps", 3)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), lines)
	}
	if lines[0] != "[2026-03-14 09:26:53] App 440: web api failed: https://api.test/?key=***&appid=440" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "[2026-03-14 09:26:53] scan finished: 3 apps" {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestLoggerAppendsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.log")

	first, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	first.Event("session one")
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	second.Event("session two")
	second.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "session one") || !strings.Contains(string(data), "session two") {
		t.Errorf("log not append-only: %q", string(data))
	}
}

func TestDisabledLoggerIsNoop(t *testing.T) {
	logger, err := Open("")
	if err != nil {
		t.Fatal(err)
	}
	logger.AppEvent(1, "dropped")
	if err := logger.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
