package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"

	"tableflip.dev/propertease/pkg/calendar"
	"tableflip.dev/propertease/pkg/logging"
	"tableflip.dev/propertease/pkg/record"
)

// ErrPersistence marks failures of the underlying storage. Callers decide how
// to report them.
var ErrPersistence = errors.New("store: persistence failure")

// Persistence defines the persistence contract for month record sets.
type Persistence interface {
	// LoadMonth returns the month's records. A missing or unreadable month
	// yields an empty set; only storage failures are returned as errors.
	LoadMonth(ctx context.Context, key calendar.MonthKey) (record.MonthSet, error)
	// SaveMonth writes the whole month and records it as the last opened month.
	SaveMonth(ctx context.Context, key calendar.MonthKey, data record.MonthSet) error
	// StoreMonth writes the whole month without touching the last opened month.
	StoreMonth(ctx context.Context, key calendar.MonthKey, data record.MonthSet) error
	// LastMonthOrNow returns the last saved month, or the month of now.
	LastMonthOrNow(ctx context.Context, now time.Time) calendar.MonthKey
	// Months lists every stored month in order.
	Months(ctx context.Context) []calendar.MonthKey
	Watch(ctx context.Context) (<-chan Event, error)
}

// Option configures Load.
type Option func(*persistence)

// WithLogger sets the logger used for recovered errors.
func WithLogger(l *zap.Logger) Option {
	return func(p *persistence) {
		p.log = logging.OrNop(l)
	}
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config, opts ...Option) (Persistence, error) {
	if cfg == nil {
		fc, err := LoadConfig()
		if err != nil {
			return nil, err
		}
		cfg = fc
	}

	ns := cfg.Namespace()
	if ns == "" {
		ns = DefaultNamespace
	}
	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}

	p := &persistence{
		basePath:  basePath,
		namespace: ns,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.d = diskv.New(diskv.Options{
		BasePath:          basePath,
		TempDir:           filepath.Join(basePath, tempDirName),
		AdvancedTransform: p.keyToPathTransform,
		InverseTransform:  p.pathToKeyTransform,
		PathPerm:          0o755,
		FilePerm:          0o644,
		// Other processes (CLI, MCP server) write the same files, so reads
		// always go to disk.
		CacheSizeMax: 0,
	})
	return p, nil
}

type persistence struct {
	d         *diskv.Diskv
	basePath  string
	namespace string
	log       *zap.Logger
}

const (
	monthSegment = "month"
	pointerName  = "lastMonth"
	tempDirName  = ".tmp"
)

func (p *persistence) monthKey(key calendar.MonthKey) string {
	return p.namespace + "." + monthSegment + "." + string(key)
}

func (p *persistence) pointerKey() string {
	return p.namespace + "." + pointerName
}

func (p *persistence) LoadMonth(_ context.Context, key calendar.MonthKey) (record.MonthSet, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	raw, err := p.d.Read(p.monthKey(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return record.MonthSet{}, nil
		}
		return nil, fmt.Errorf("%w: read month %s: %w", ErrPersistence, key, err)
	}
	return p.decodeMonth(key, raw), nil
}

// decodeMonth never fails: malformed data is logged and read as an empty month.
func (p *persistence) decodeMonth(key calendar.MonthKey, raw []byte) record.MonthSet {
	set := record.MonthSet{}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return set
	}
	if err := json.Unmarshal(raw, &set); err != nil {
		p.log.Warn("malformed month data, treating month as empty",
			zap.String("month", string(key)),
			zap.Error(err))
		return record.MonthSet{}
	}
	if set == nil {
		// "null" decodes without error into a nil map.
		return record.MonthSet{}
	}
	for k, r := range set {
		if r == nil {
			delete(set, k)
		}
	}
	return set
}

func (p *persistence) SaveMonth(ctx context.Context, key calendar.MonthKey, data record.MonthSet) error {
	if err := p.StoreMonth(ctx, key, data); err != nil {
		return err
	}
	if err := p.d.WriteString(p.pointerKey(), string(key)); err != nil {
		return fmt.Errorf("%w: write last month: %w", ErrPersistence, err)
	}
	return nil
}

func (p *persistence) StoreMonth(_ context.Context, key calendar.MonthKey, data record.MonthSet) error {
	if err := key.Validate(); err != nil {
		return err
	}
	b, err := encodeMonth(data)
	if err != nil {
		return err
	}
	if err := p.d.Write(p.monthKey(key), b); err != nil {
		return fmt.Errorf("%w: write month %s: %w", ErrPersistence, key, err)
	}
	p.log.Debug("month written", zap.String("month", string(key)), zap.Int("days", len(data)))
	return nil
}

func encodeMonth(data record.MonthSet) ([]byte, error) {
	out := make(record.MonthSet, len(data))
	for k, r := range data {
		if err := k.Validate(); err != nil {
			return nil, err
		}
		if r != nil {
			out[k] = r
		}
	}
	return json.Marshal(out)
}

func (p *persistence) LastMonthOrNow(_ context.Context, now time.Time) calendar.MonthKey {
	key := p.pointerKey()
	if p.d.Has(key) {
		raw, err := p.d.Read(key)
		if err != nil {
			p.log.Warn("read last month", zap.Error(err))
		} else if mk, err := calendar.ParseMonthKey(strings.TrimSpace(string(raw))); err == nil {
			return mk
		} else {
			p.log.Warn("ignoring stored last month", zap.Error(err))
		}
	}
	return calendar.MonthKeyOf(now)
}

func (p *persistence) Months(ctx context.Context) []calendar.MonthKey {
	prefix := p.namespace + "." + monthSegment + "."
	months := make([]calendar.MonthKey, 0)
	for key := range p.d.KeysPrefix(prefix, ctx.Done()) {
		mk, err := calendar.ParseMonthKey(strings.TrimPrefix(key, prefix))
		if err != nil {
			continue
		}
		months = append(months, mk)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
	return months
}

// keyToPathTransform files months as <namespace>/month/<YYYY>/<YYYY-MM>;
// every other key lives flat in the base directory.
func (p *persistence) keyToPathTransform(key string) *diskv.PathKey {
	prefix := p.namespace + "." + monthSegment + "."
	if mk := strings.TrimPrefix(key, prefix); mk != key && len(mk) >= 4 {
		return &diskv.PathKey{
			Path:     []string{p.namespace, monthSegment, mk[:4]},
			FileName: mk,
		}
	}
	return &diskv.PathKey{Path: []string{}, FileName: key}
}

func (p *persistence) pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 3 && pathKey.Path[0] == p.namespace && pathKey.Path[1] == monthSegment {
		return p.namespace + "." + monthSegment + "." + pathKey.FileName
	}
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return strings.Join(append(append([]string{}, pathKey.Path...), pathKey.FileName), "/")
}
