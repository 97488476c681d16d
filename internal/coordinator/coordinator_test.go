package coordinator

import (
	"errors"
	"testing"
)

func TestReloadExclusivity(t *testing.T) {
	c := New(nil)

	started, err := c.BeginReload()
	if err != nil || !started {
		t.Fatalf("idle reload: started=%v err=%v", started, err)
	}
	if c.State() != StateListLoading {
		t.Fatalf("state = %s, want %s", c.State(), StateListLoading)
	}

	// A second reload latches rather than failing.
	started, err = c.BeginReload()
	if err != nil {
		t.Fatalf("concurrent reload should latch, got %v", err)
	}
	if started {
		t.Fatal("concurrent reload must not start")
	}

	pending := c.Finish()
	if !pending.Reload {
		t.Error("latched reload lost")
	}
	if c.State() != StateIdle {
		t.Errorf("state after finish = %s", c.State())
	}

	// Latches are cleared on consumption.
	if again := c.Finish(); again.Reload || again.Scan {
		t.Errorf("latches not cleared: %+v", again)
	}
}

func TestReloadRejectedDuringScanAndUnlock(t *testing.T) {
	c := New(nil)
	if _, err := c.BeginScan("auto"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.BeginReload(); !errors.Is(err, ErrBusy) {
		t.Errorf("reload during scan: err = %v, want ErrBusy", err)
	}
	c.Finish()

	if err := c.BeginUnlock(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.BeginReload(); !errors.Is(err, ErrBusy) {
		t.Errorf("reload during unlock: err = %v, want ErrBusy", err)
	}
}

func TestScanLatchesBehindAnyActivity(t *testing.T) {
	for _, begin := range []struct {
		name  string
		claim func(c *Coordinator) error
	}{
		{"reload", func(c *Coordinator) error { _, err := c.BeginReload(); return err }},
		{"scan", func(c *Coordinator) error { _, err := c.BeginScan("auto"); return err }},
		{"unlock", func(c *Coordinator) error { return c.BeginUnlock() }},
	} {
		t.Run(begin.name, func(t *testing.T) {
			c := New(nil)
			if err := begin.claim(c); err != nil {
				t.Fatal(err)
			}

			started, err := c.BeginScan("full-rescan")
			if err != nil || started {
				t.Fatalf("scan should latch: started=%v err=%v", started, err)
			}

			pending := c.Finish()
			if !pending.Scan || pending.ScanMode != "full-rescan" {
				t.Errorf("pending = %+v, want latched full-rescan", pending)
			}
		})
	}
}

func TestScanLatchCoalescesToLatestMode(t *testing.T) {
	c := New(nil)
	if _, err := c.BeginReload(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.BeginScan("auto"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.BeginScan("full-rescan"); err != nil {
		t.Fatal(err)
	}

	pending := c.Finish()
	if !pending.Scan {
		t.Fatal("scan latch lost")
	}
	if pending.ScanMode != "full-rescan" {
		t.Errorf("mode = %q, want the most recent request", pending.ScanMode)
	}
}

func TestUnlockRequiresIdle(t *testing.T) {
	c := New(nil)
	if err := c.BeginUnlock(); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateUnlocking {
		t.Fatalf("state = %s", c.State())
	}
	if err := c.BeginUnlock(); !errors.Is(err, ErrBusy) {
		t.Errorf("second unlock: err = %v, want ErrBusy", err)
	}
	c.Finish()
	if err := c.BeginUnlock(); err != nil {
		t.Errorf("unlock after finish: %v", err)
	}
}
