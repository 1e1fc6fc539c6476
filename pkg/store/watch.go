package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"

	"tableflip.dev/propertease/pkg/calendar"
)

// EventType describes the nature of a persistence change notification.
type EventType int

const (
	// EventMonthChanged indicates the records of Event.Month were rewritten.
	EventMonthChanged EventType = iota

	// EventPointerChanged indicates the last opened month moved.
	EventPointerChanged

	// EventInvalidated signals a change that could not be classified; callers
	// should reload everything they show.
	EventInvalidated
)

func (t EventType) String() string {
	switch t {
	case EventMonthChanged:
		return "month"
	case EventPointerChanged:
		return "pointer"
	default:
		return "invalidated"
	}
}

// Event is emitted by Persistence.Watch when underlying storage changes.
type Event struct {
	Type  EventType
	Month calendar.MonthKey
}

const throttleDelay = 100 * time.Millisecond

// Watch streams change events until ctx is cancelled. The channel is closed
// once ctx is done or the watcher stops. Events are dropped when the consumer
// falls behind; the next event still arrives.
func (p *persistence) Watch(ctx context.Context) (<-chan Event, error) {
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("%w: ensure base path: %w", ErrPersistence, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				p.log.Warn("watcher close", zap.Error(err))
			}
		})
	}

	dirs, err := p.collectDirs()
	if err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: enumerate directories: %w", err)
	}
	watched := make(map[string]struct{}, len(dirs))
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
		watched[dir] = struct{}{}
	}

	events := make(chan Event, 64)

	go func() {
		var (
			sendMu sync.Mutex
			closed bool
		)
		defer func() {
			sendMu.Lock()
			closed = true
			close(events)
			sendMu.Unlock()
		}()
		defer closeWatcher()

		// send runs on the throttle's timer goroutine too.
		send := func(ev Event) {
			sendMu.Lock()
			defer sendMu.Unlock()
			if closed {
				return
			}
			select {
			case events <- ev:
			default:
			}
		}

		throttle := newEventThrottle(throttleDelay)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.log.Debug("watcher error", zap.Error(err))
				throttle.Enqueue(Event{Type: EventInvalidated}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if p.isTemp(evt.Name) {
					continue
				}

				if evt.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						// MkdirAll may have created nested directories before
						// the parent was watched.
						sub, err := p.collectDirsUnder(filepath.Clean(evt.Name))
						if err != nil {
							p.log.Warn("enumerate new directory", zap.String("dir", evt.Name), zap.Error(err))
						}
						for _, dir := range sub {
							if _, found := watched[dir]; found {
								continue
							}
							if err := watcher.Add(dir); err != nil {
								p.log.Warn("watch new directory", zap.String("dir", dir), zap.Error(err))
								continue
							}
							watched[dir] = struct{}{}
						}
						// A new year directory precedes its first month file.
						throttle.Enqueue(Event{Type: EventInvalidated}, send)
						continue
					}
				}

				throttle.Enqueue(p.classify(evt.Name), send)
			}
		}
	}()

	return events, nil
}

// collectDirs returns the base path and every directory beneath it except
// diskv's temp directory.
func (p *persistence) collectDirs() ([]string, error) {
	return p.collectDirsUnder(p.basePath)
}

func (p *persistence) collectDirsUnder(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() || path == base {
			return nil
		}
		if p.isTemp(path) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs, err
}

func (p *persistence) isTemp(path string) bool {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil {
		return false
	}
	first := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
	return first == tempDirName
}

// classify maps a changed file to an event using the same layout as the
// diskv transform.
func (p *persistence) classify(path string) Event {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil || rel == "." {
		return Event{Type: EventInvalidated}
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	key := p.pathToKeyTransform(&diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	})
	switch {
	case key == p.pointerKey():
		return Event{Type: EventPointerChanged}
	case strings.HasPrefix(key, p.namespace+"."+monthSegment+"."):
		mk, err := calendar.ParseMonthKey(strings.TrimPrefix(key, p.namespace+"."+monthSegment+"."))
		if err != nil {
			return Event{Type: EventInvalidated}
		}
		return Event{Type: EventMonthChanged, Month: mk}
	default:
		return Event{Type: EventInvalidated}
	}
}

// eventThrottle coalesces bursts of filesystem activity into one event per
// distinct (type, month) pair.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[Event]struct{}
	order   []Event
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[Event]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, dup := t.pending[ev]; !dup {
		t.pending[ev] = struct{}{}
		t.order = append(t.order, ev)
	}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	order := t.order
	t.pending = make(map[Event]struct{})
	t.order = nil
	t.timer = nil
	t.mu.Unlock()

	for _, ev := range order {
		send(ev)
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
