package volume

import (
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/smazurov/audiohal/internal/config"
	"github.com/smazurov/audiohal/internal/halerr"
)

// initialLevels are the volume levels a fresh store starts at.
var initialLevels = map[Type]uint32{
	TypeSystem:       9,
	TypeNotification: 11,
	TypeAlarm:        7,
	TypeRingtone:     11,
	TypeMedia:        7,
	TypeCall:         4,
	TypeVoIP:         4,
	TypeVoice:        7,
	TypeFixed:        4,
}

// Store serves the current table and the per-type volume levels.
// Readers never block on a reload.
type Store struct {
	table  atomic.Pointer[Table]
	mu     sync.Mutex
	levels map[Type]uint32
	logger *slog.Logger
}

// NewStore creates a store around t. A nil table uses DefaultTable.
func NewStore(t *Table, logger *slog.Logger) *Store {
	if t == nil {
		t = DefaultTable()
	}
	s := &Store{
		levels: make(map[Type]uint32, len(initialLevels)),
		logger: logger,
	}
	for typ, l := range initialLevels {
		s.levels[typ] = l
	}
	s.table.Store(t)
	return s
}

// Table returns the current table.
func (s *Store) Table() *Table {
	return s.table.Load()
}

// Swap replaces the table.
func (s *Store) Swap(t *Table) {
	s.table.Store(t)
	s.logger.Info("Volume table replaced", "types", len(t.Volumes), "gains", len(t.Gains))
}

// Gain returns the gain factor of a gain type.
func (s *Store) Gain(name string) (float64, error) {
	g, err := ParseGain(name)
	if err != nil {
		return 0, err
	}
	v, ok := s.Table().Gains[g]
	if !ok {
		return Unity, nil
	}
	return v, nil
}

// VolumeTable returns a copy of the level curve of a volume type.
func (s *Store) VolumeTable(name string) ([]float64, error) {
	typ, err := ParseType(name)
	if err != nil {
		return nil, err
	}
	return slices.Clone(s.Table().Volumes[typ]), nil
}

// LevelMax returns the number of levels for a volume type.
func (s *Store) LevelMax(name string) (uint32, error) {
	typ, err := ParseType(name)
	if err != nil {
		return 0, err
	}
	return uint32(len(s.Table().Volumes[typ])), nil
}

// Level returns the current level of a volume type.
func (s *Store) Level(name string) (uint32, error) {
	typ, err := ParseType(name)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levels[typ], nil
}

// SetLevel sets the current level of a volume type.
func (s *Store) SetLevel(name string, level uint32) error {
	typ, err := ParseType(name)
	if err != nil {
		return err
	}
	if n := uint32(len(s.Table().Volumes[typ])); level >= n {
		return halerr.Parameter("level %d out of range for %s (max %d)", level, typ, n-1)
	}
	s.mu.Lock()
	s.levels[typ] = level
	s.mu.Unlock()
	s.logger.Debug("Volume level set", "type", typ, "level", level)
	return nil
}

// Value returns the linear volume for a type at level with a gain applied.
// A level past the end of the curve plays at unity.
func (s *Store) Value(name string, level uint32, gain string) (float64, error) {
	typ, err := ParseType(name)
	if err != nil {
		return 0, err
	}
	g, err := s.Gain(gain)
	if err != nil {
		return 0, err
	}
	curve := s.Table().Volumes[typ]
	v := Unity
	if int(level) < len(curve) {
		v = curve[level]
	}
	return v * g, nil
}

// Watch reloads the table from path whenever the file changes. Reload
// failures keep the previous table. onReload may be nil.
func (s *Store) Watch(path string, onReload func(*Table), opts ...config.WatcherOption[*Table]) (*config.Watcher[*Table], error) {
	w := config.NewConfigWatcher(path, Load, s.logger, opts...)
	w.OnReload(func(t *Table) {
		s.Swap(t)
		if onReload != nil {
			onReload(t)
		}
	})
	if err := w.Start(); err != nil {
		return nil, halerr.Resource("watch volume table", err)
	}
	return w, nil
}
