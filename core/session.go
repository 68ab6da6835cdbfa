package core

import (
	"sync"
	"time"

	"github.com/huangsam/gitpulse/core/detail"
	"github.com/huangsam/gitpulse/core/field"
	"github.com/huangsam/gitpulse/core/filter"
	"github.com/huangsam/gitpulse/core/view"
	"github.com/huangsam/gitpulse/internal/dataset"
	"github.com/huangsam/gitpulse/schema"
)

// Session holds the loaded dataset with the current filter, level and settings.
// Readers always see a consistent snapshot; a failed load never replaces
// the previous dataset.
type Session struct {
	mu       sync.RWMutex
	data     schema.Dataset
	spec     schema.FilterSpec
	level    schema.ViewConfig
	settings field.Settings
	now      func() time.Time
}

// snapshot is an immutable copy of the session inputs.
type snapshot struct {
	commits  []schema.Commit
	spec     schema.FilterSpec
	level    schema.ViewConfig
	settings field.Settings
}

// NewSession starts an empty session at the developer level with the default filter.
func NewSession(s field.Settings) *Session {
	return &Session{
		data:     schema.Dataset{Commits: []schema.Commit{}, Metadata: schema.Metadata{}},
		spec:     schema.DefaultFilterSpec(),
		level:    view.Resolve(string(schema.DeveloperLevel)),
		settings: s,
		now:      time.Now,
	}
}

// Load parses and merges every file, then swaps the dataset in one step.
func (s *Session) Load(paths ...string) error {
	ds, err := dataset.LoadFiles(paths...)
	if err != nil {
		return err
	}
	s.Replace(ds)
	return nil
}

// Replace swaps in an already-loaded dataset.
func (s *Session) Replace(ds schema.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = ds
}

// Dataset returns the loaded dataset.
func (s *Session) Dataset() schema.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// SetFilter validates spec against the current settings before adopting it.
func (s *Session) SetFilter(spec schema.FilterSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := filter.Validate(spec, s.settings); err != nil {
		return err
	}
	s.spec = spec.Clone()
	return nil
}

// Filter returns a copy of the current filter.
func (s *Session) Filter() schema.FilterSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spec.Clone()
}

// SetLevel switches the view level; unknown names resolve to developer.
func (s *Session) SetLevel(name string) schema.ViewConfig {
	cfg := view.Resolve(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = cfg
	return cfg
}

// View returns the current level config.
func (s *Session) View() schema.ViewConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.level
}

// Settings returns the current settings.
func (s *Session) Settings() field.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetSettings replaces the settings after checking the work window.
func (s *Session) SetSettings(settings field.Settings) error {
	if err := field.ValidateWorkHours(settings.WorkHourStart, settings.WorkHourEnd); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}

func (s *Session) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{commits: s.data.Commits, spec: s.spec.Clone(), level: s.level, settings: s.settings}
}

// Filtered returns the commits passing the current filter.
func (s *Session) Filtered() ([]schema.Commit, error) {
	snap := s.snapshot()
	return filter.Apply(snap.commits, snap.spec, snap.settings)
}

// Dashboard builds every view for the current level.
func (s *Session) Dashboard() (schema.Dashboard, error) {
	snap := s.snapshot()
	return s.buildDashboard(snap, snap.level)
}

// DashboardAt builds every view for the named level without switching the
// session's level. Unknown names resolve to developer.
func (s *Session) DashboardAt(level string) (schema.Dashboard, error) {
	return s.buildDashboard(s.snapshot(), view.Resolve(level))
}

func (s *Session) buildDashboard(snap snapshot, cfg schema.ViewConfig) (schema.Dashboard, error) {
	d, err := BuildDashboard(snap.commits, snap.spec, cfg, snap.settings)
	if err != nil {
		return schema.Dashboard{}, err
	}
	d.GeneratedAt = s.now()
	return d, nil
}

// Detail returns one page of the commits behind sel.
func (s *Session) Detail(sel schema.Selector, offset, limit int) (schema.DetailPage, error) {
	snap := s.snapshot()
	filtered, err := filter.Apply(snap.commits, snap.spec, snap.settings)
	if err != nil {
		return schema.DetailPage{}, err
	}
	if sel.Kind == schema.SelectGroup && sel.Mode == "" {
		sel.Mode = snap.level.Contributors
	}
	picked, err := detail.Select(filtered, sel, snap.settings)
	if err != nil {
		return schema.DetailPage{}, err
	}
	picked.FilterInfo = filter.Describe(snap.spec)
	return detail.Paginate(picked, offset, limit), nil
}
