package scanner

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"medallion/internal/library"
)

func TestRunReportsEveryAppOnce(t *testing.T) {
	appIDs := []uint32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	failing := map[uint32]bool{3: true, 6: true, 9: true}

	fetch := func(_ context.Context, appID uint32) (int, int, error) {
		if failing[appID] {
			return 0, 0, errors.New("forced failure")
		}
		return int(appID), int(appID) + 5, nil
	}

	var results []Progress
	for progress := range New(8, nil).Run(context.Background(), appIDs, fetch) {
		results = append(results, progress)
	}

	if len(results) != 10 {
		t.Fatalf("got %d callbacks, want 10", len(results))
	}

	completedSeen := make([]int, 0, len(results))
	unknown := 0
	seen := make(map[uint32]bool)
	for _, progress := range results {
		if seen[progress.AppID] {
			t.Errorf("app %d reported twice", progress.AppID)
		}
		seen[progress.AppID] = true
		completedSeen = append(completedSeen, progress.Completed)
		if progress.Unlocked == library.UnknownProgress {
			if progress.Total != library.UnknownProgress {
				t.Errorf("app %d: pair not jointly unknown", progress.AppID)
			}
			unknown++
		}
	}
	if unknown != 3 {
		t.Errorf("unknown results = %d, want exactly 3", unknown)
	}

	// Completed values form exactly {1..10}; arrival order is whichever
	// worker finishes first.
	sort.Ints(completedSeen)
	for i, value := range completedSeen {
		if value != i+1 {
			t.Fatalf("completed set = %v, want 1..10", completedSeen)
		}
	}
}

func TestRunHonorsConcurrencyCeiling(t *testing.T) {
	const ceiling = 3
	var active atomic.Int32
	var peak atomic.Int32

	fetch := func(_ context.Context, _ uint32) (int, int, error) {
		current := active.Add(1)
		for {
			observed := peak.Load()
			if current <= observed || peak.CompareAndSwap(observed, current) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		active.Add(-1)
		return 1, 2, nil
	}

	appIDs := make([]uint32, 24)
	for i := range appIDs {
		appIDs[i] = uint32(i + 1)
	}
	for range New(ceiling, nil).Run(context.Background(), appIDs, fetch) {
	}

	if got := peak.Load(); got > ceiling {
		t.Errorf("peak concurrency %d exceeded ceiling %d", got, ceiling)
	}
}

func TestRunSequentialForCompanionPath(t *testing.T) {
	var active atomic.Int32
	var order []uint32
	var mu sync.Mutex

	fetch := func(_ context.Context, appID uint32) (int, int, error) {
		if active.Add(1) != 1 {
			t.Error("companion path must never overlap invocations")
		}
		mu.Lock()
		order = append(order, appID)
		mu.Unlock()
		time.Sleep(time.Millisecond)
		active.Add(-1)
		return 0, 0, nil
	}

	for range New(1, nil).Run(context.Background(), []uint32{5, 6, 7}, fetch) {
	}

	if len(order) != 3 || order[0] != 5 || order[1] != 6 || order[2] != 7 {
		t.Errorf("sequential order = %v", order)
	}
}

func TestRunStopsSchedulingOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var started atomic.Int32
	release := make(chan struct{})
	fetch := func(_ context.Context, _ uint32) (int, int, error) {
		started.Add(1)
		<-release
		return 1, 1, nil
	}

	appIDs := make([]uint32, 50)
	for i := range appIDs {
		appIDs[i] = uint32(i + 1)
	}

	out := New(2, nil).Run(ctx, appIDs, fetch)

	// Let the first two units start, then cancel and let them drain.
	for started.Load() < 2 {
		time.Sleep(time.Millisecond)
	}
	cancel()
	time.Sleep(10 * time.Millisecond)
	close(release)

	received := 0
	for range out {
		received++
	}

	// In-flight fetches finish naturally; nothing new is scheduled after
	// the cancel beyond what had already claimed a slot.
	if received > 4 {
		t.Errorf("received %d results after cancel, scheduling did not stop", received)
	}
	if received == 0 {
		t.Error("in-flight work should still complete")
	}
}

func TestSelectModes(t *testing.T) {
	records := map[uint32]library.GameRecord{
		1: {AppID: 1, AchievementUnlocked: 3, AchievementTotal: 10},
		2: {AppID: 2, AchievementUnlocked: library.UnknownProgress, AchievementTotal: library.UnknownProgress},
		3: {AppID: 3, AchievementUnlocked: 0, AchievementTotal: 0},
	}

	auto := Select(ModeAuto, records)
	if len(auto) != 1 || auto[0] != 2 {
		t.Errorf("auto selection = %v, want [2]", auto)
	}

	full := Select(ModeFull, records)
	if len(full) != 3 {
		t.Errorf("full selection = %v, want all three", full)
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("full-rescan") != ModeFull {
		t.Error("full-rescan not recognized")
	}
	if ParseMode("anything-else") != ModeAuto {
		t.Error("default should be auto")
	}
}
