package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"tableflip.dev/propertease/pkg/calendar"
	"tableflip.dev/propertease/pkg/record"
)

// Memory is a Persistence that keeps encoded months in process memory. It
// backs dry runs and tests.
type Memory struct {
	mu       sync.Mutex
	months   map[calendar.MonthKey][]byte
	last     calendar.MonthKey
	watchers []chan Event
}

var _ Persistence = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{months: make(map[calendar.MonthKey][]byte)}
}

// CopyFrom returns a Memory seeded with the given months and pointer of src.
func CopyFrom(ctx context.Context, src Persistence, months ...calendar.MonthKey) (*Memory, error) {
	m := NewMemory()
	for _, mk := range months {
		set, err := src.LoadMonth(ctx, mk)
		if err != nil {
			return nil, err
		}
		if err := m.StoreMonth(ctx, mk, set); err != nil {
			return nil, err
		}
	}
	m.last = src.LastMonthOrNow(ctx, time.Now())
	return m, nil
}

func (m *Memory) LoadMonth(_ context.Context, key calendar.MonthKey) (record.MonthSet, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	raw, ok := m.months[key]
	m.mu.Unlock()

	set := record.MonthSet{}
	if !ok {
		return set, nil
	}
	if err := json.Unmarshal(raw, &set); err != nil || set == nil {
		return record.MonthSet{}, nil
	}
	for k, r := range set {
		if r == nil {
			delete(set, k)
		}
	}
	return set, nil
}

func (m *Memory) SaveMonth(ctx context.Context, key calendar.MonthKey, data record.MonthSet) error {
	if err := m.StoreMonth(ctx, key, data); err != nil {
		return err
	}
	m.mu.Lock()
	m.last = key
	m.mu.Unlock()
	m.notify(Event{Type: EventPointerChanged})
	return nil
}

func (m *Memory) StoreMonth(_ context.Context, key calendar.MonthKey, data record.MonthSet) error {
	if err := key.Validate(); err != nil {
		return err
	}
	b, err := encodeMonth(data)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.months[key] = b
	m.mu.Unlock()
	m.notify(Event{Type: EventMonthChanged, Month: key})
	return nil
}

// PutRaw stores raw bytes as a month, bypassing encoding.
func (m *Memory) PutRaw(key calendar.MonthKey, raw []byte) {
	m.mu.Lock()
	m.months[key] = raw
	m.mu.Unlock()
}

func (m *Memory) LastMonthOrNow(_ context.Context, now time.Time) calendar.MonthKey {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last != "" {
		return m.last
	}
	return calendar.MonthKeyOf(now)
}

func (m *Memory) Months(context.Context) []calendar.MonthKey {
	m.mu.Lock()
	defer m.mu.Unlock()
	months := make([]calendar.MonthKey, 0, len(m.months))
	for k := range m.months {
		months = append(months, k)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
	return months
}

func (m *Memory) Watch(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, 64)
	m.mu.Lock()
	m.watchers = append(m.watchers, ch)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, w := range m.watchers {
			if w == ch {
				m.watchers = append(m.watchers[:i], m.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

func (m *Memory) notify(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.watchers {
		select {
		case w <- ev:
		default:
		}
	}
}
