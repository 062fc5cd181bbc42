package watcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

// newTestWatcher returns a Watcher whose log output is captured on a
// channel. The loop is driven directly through injected channels, so no
// real fsnotify watcher is needed.
func newTestWatcher(tb testing.TB, build func() error) (*Watcher, chan string) {
	tb.Helper()
	logs := make(chan string, 64)
	w := &Watcher{
		build: build,
		logf: func(format string, args ...interface{}) {
			logs <- fmt.Sprintf(format, args...)
		},
	}
	return w, logs
}

func waitLog(t *testing.T, logs <-chan string, substr string) string {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-logs:
			if strings.Contains(msg, substr) {
				return msg
			}
		case <-deadline:
			t.Fatalf("timed out waiting for log containing %q", substr)
		}
	}
}

func writeEvent(name string) fsnotify.Event {
	return fsnotify.Event{Name: name, Op: fsnotify.Write}
}

func TestSingleEventTriggersOneBuild(t *testing.T) {
	builds := make(chan struct{}, 8)
	w, logs := newTestWatcher(t, func() error {
		builds <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan fsnotify.Event)
	loopDone := make(chan error, 1)
	go func() { loopDone <- w.loop(ctx, events, make(chan error)) }()

	events <- writeEvent("a.html")
	select {
	case <-builds:
	case <-time.After(2 * time.Second):
		t.Fatal("build was not triggered")
	}
	require.Contains(t, waitLog(t, logs, "Done!"), "0 files changed")

	cancel()
	require.NoError(t, <-loopDone)
	require.Empty(t, builds, "expected exactly one build")
}

func TestChangesDuringBuildAreCoalesced(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	w, logs := newTestWatcher(t, func() error {
		started <- struct{}{}
		<-release
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := make(chan fsnotify.Event)
	loopDone := make(chan error, 1)
	go func() { loopDone <- w.loop(ctx, events, make(chan error)) }()

	events <- writeEvent("a.html")
	<-started

	// Unbuffered sends: each completes only once the loop has consumed the
	// event, so both are counted before the build is released.
	events <- writeEvent("b.html")
	events <- writeEvent("c.html")
	close(release)

	require.Contains(t, waitLog(t, logs, "Done!"), "2 files changed while building")

	// The counter resets between builds.
	events <- writeEvent("a.html")
	<-started
	require.Contains(t, waitLog(t, logs, "Done!"), "0 files changed while building")

	cancel()
	require.NoError(t, <-loopDone)
}

func TestBuildFailureKeepsWatching(t *testing.T) {
	w, logs := newTestWatcher(t, func() error {
		return errors.New("boom")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := make(chan fsnotify.Event)
	loopDone := make(chan error, 1)
	go func() { loopDone <- w.loop(ctx, events, make(chan error)) }()

	events <- writeEvent("a.html")
	require.Contains(t, waitLog(t, logs, "Build failed"), "boom")

	events <- writeEvent("a.html")
	waitLog(t, logs, "Build failed")

	cancel()
	require.NoError(t, <-loopDone)
}

func TestChmodEventsAreIgnored(t *testing.T) {
	builds := make(chan struct{}, 1)
	w, _ := newTestWatcher(t, func() error {
		builds <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan fsnotify.Event)
	loopDone := make(chan error, 1)
	go func() { loopDone <- w.loop(ctx, events, make(chan error)) }()

	events <- fsnotify.Event{Name: "a.html", Op: fsnotify.Chmod}
	cancel()
	require.NoError(t, <-loopDone)
	require.Empty(t, builds)
}

func TestShutdownWaitsForInFlightBuild(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	w, _ := newTestWatcher(t, func() error {
		started <- struct{}{}
		<-release
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan fsnotify.Event)
	loopDone := make(chan error, 1)
	go func() { loopDone <- w.loop(ctx, events, make(chan error)) }()

	events <- writeEvent("a.html")
	<-started
	cancel()

	select {
	case <-loopDone:
		t.Fatal("loop returned while a build was still running")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-loopDone)
}

func TestReportedErrorsDoNotStopLoop(t *testing.T) {
	builds := make(chan struct{}, 1)
	w, logs := newTestWatcher(t, func() error {
		builds <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := make(chan fsnotify.Event)
	errs := make(chan error)
	loopDone := make(chan error, 1)
	go func() { loopDone <- w.loop(ctx, events, errs) }()

	errs <- errors.New("overflow")
	waitLog(t, logs, "Watcher error")

	events <- writeEvent("a.html")
	select {
	case <-builds:
	case <-time.After(2 * time.Second):
		t.Fatal("build was not triggered after watcher error")
	}

	cancel()
	require.NoError(t, <-loopDone)
}
