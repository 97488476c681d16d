package coordinator

import (
	"fmt"
	"log/slog"
	"sync"

	"medallion/internal/logging"
)

// State names the exclusive activity currently holding the engine.
type State string

const (
	// StateIdle means no activity is running and any request may start.
	StateIdle State = "idle"
	// StateListLoading covers ownership acquisition and merge.
	StateListLoading State = "list-loading"
	// StateScanning covers the bounded per-app achievement fan-out.
	StateScanning State = "achievement-scanning"
	// StateUnlocking covers the sequential unlock-all pass.
	StateUnlocking State = "unlocking-all"
)

// ErrBusy reports a request rejected because a conflicting activity holds
// the coordinator. Callers surface it to the user rather than queueing.
var ErrBusy = fmt.Errorf("another operation is in progress")

// Coordinator serializes the engine's long-running activities. Exactly one
// activity runs at a time; requests that arrive mid-activity are either
// latched for a follow-up pass or rejected with ErrBusy, depending on the
// pair of activities involved.
type Coordinator struct {
	mu     sync.Mutex
	state  State
	logger *slog.Logger

	reloadPending bool
	scanPending   bool
	scanMode      string
}

// New returns an idle coordinator.
func New(logger *slog.Logger) *Coordinator {
	return &Coordinator{
		state:  StateIdle,
		logger: logging.NewComponentLogger(logger, "coordinator"),
	}
}

// State reports the current activity.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// BeginReload claims the coordinator for a list reload. While a reload is
// already running the request latches instead of failing, so back-to-back
// triggers coalesce into one follow-up pass. A running scan or unlock
// rejects the reload outright.
func (c *Coordinator) BeginReload() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateIdle:
		c.state = StateListLoading
		return true, nil
	case StateListLoading:
		c.reloadPending = true
		c.logger.Debug("reload latched behind running reload")
		return false, nil
	default:
		return false, ErrBusy
	}
}

// BeginScan claims the coordinator for an achievement scan, or latches the
// request behind whatever activity is running. A latched scan remembers the
// most recent mode; repeated requests coalesce.
func (c *Coordinator) BeginScan(mode string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateIdle {
		c.state = StateScanning
		return true, nil
	}
	c.scanPending = true
	c.scanMode = mode
	c.logger.Debug("scan latched",
		logging.String("behind", string(c.state)),
		logging.String("mode", mode))
	return false, nil
}

// BeginUnlock claims the coordinator for an unlock-all pass. Unlocking
// never latches: a busy coordinator rejects it.
func (c *Coordinator) BeginUnlock() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return ErrBusy
	}
	c.state = StateUnlocking
	return nil
}

// Pending describes work latched while an activity ran.
type Pending struct {
	Reload   bool
	Scan     bool
	ScanMode string
}

// Finish releases the coordinator and hands back any latched follow-up
// work, clearing the latches. The caller owns consuming the latches before
// claiming the coordinator again.
func (c *Coordinator) Finish() Pending {
	c.mu.Lock()
	defer c.mu.Unlock()

	pending := Pending{
		Reload:   c.reloadPending,
		Scan:     c.scanPending,
		ScanMode: c.scanMode,
	}
	c.state = StateIdle
	c.reloadPending = false
	c.scanPending = false
	c.scanMode = ""
	return pending
}
