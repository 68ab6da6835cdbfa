package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/huangsam/gitpulse/core/field"
	"github.com/huangsam/gitpulse/core/filter"
	"github.com/huangsam/gitpulse/core/view"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// Persisted state keys. Each key is read and written independently.
const (
	FilterKey    = "filter"
	ViewLevelKey = "view_level"
	UseUTCKey    = "use_utc"
	WorkHoursKey = "work_hours"
)

// StateKeys lists every persisted key.
var StateKeys = []string{FilterKey, ViewLevelKey, UseUTCKey, WorkHoursKey}

// State is the session state that survives between runs.
type State struct {
	Filter        schema.FilterSpec `json:"filter"`
	Level         schema.ViewLevel  `json:"view_level"`
	UseUTC        bool              `json:"use_utc"`
	WorkHourStart int               `json:"work_hour_start"`
	WorkHourEnd   int               `json:"work_hour_end"`
}

// DefaultState is the default filter, developer level, local time and 8-17.
func DefaultState() State {
	return State{
		Filter:        schema.DefaultFilterSpec(),
		Level:         schema.DeveloperLevel,
		WorkHourStart: field.DefaultWorkHourStart,
		WorkHourEnd:   field.DefaultWorkHourEnd,
	}
}

// Settings returns field settings carrying the persisted timezone and work hours.
func (st State) Settings() field.Settings {
	s := field.DefaultSettings()
	s.UseUTC = st.UseUTC
	s.WorkHourStart = st.WorkHourStart
	s.WorkHourEnd = st.WorkHourEnd
	return s
}

// FormatWorkHours renders a work window as "8-17".
func FormatWorkHours(start, end int) string {
	return fmt.Sprintf("%d-%d", start, end)
}

// ParseWorkHours reads a "start-end" work window.
func ParseWorkHours(v string) (start, end int, err error) {
	a, b, ok := strings.Cut(strings.TrimSpace(v), "-")
	if !ok {
		return 0, 0, fmt.Errorf("work hours %q must look like 8-17", v)
	}
	if start, err = strconv.Atoi(strings.TrimSpace(a)); err != nil {
		return 0, 0, fmt.Errorf("invalid work start in %q: %w", v, err)
	}
	if end, err = strconv.Atoi(strings.TrimSpace(b)); err != nil {
		return 0, 0, fmt.Errorf("invalid work end in %q: %w", v, err)
	}
	return start, end, field.ValidateWorkHours(start, end)
}

// LoadState reads every key from store. A missing key keeps its default;
// an unreadable or invalid value keeps its default and logs a warning.
func LoadState(store contract.StateStore) State {
	st := DefaultState()
	if store == nil {
		return st
	}

	if raw, ok := readKey(store, FilterKey); ok {
		var spec schema.FilterSpec
		if err := json.Unmarshal([]byte(raw), &spec); err != nil {
			warnKey(FilterKey, err)
		} else if _, err := filter.Validate(spec, field.DefaultSettings()); err != nil {
			warnKey(FilterKey, err)
		} else {
			st.Filter = spec
		}
	}

	if raw, ok := readKey(store, ViewLevelKey); ok {
		if view.IsKnown(raw) {
			st.Level = view.Resolve(raw).Level
		} else {
			warnKey(ViewLevelKey, fmt.Errorf("unknown view level %q", raw))
		}
	}

	if raw, ok := readKey(store, UseUTCKey); ok {
		if utc, err := contract.ParseBoolString(raw); err != nil {
			warnKey(UseUTCKey, err)
		} else {
			st.UseUTC = utc
		}
	}

	if raw, ok := readKey(store, WorkHoursKey); ok {
		if start, end, err := ParseWorkHours(raw); err != nil {
			warnKey(WorkHoursKey, err)
		} else {
			st.WorkHourStart, st.WorkHourEnd = start, end
		}
	}
	return st
}

func readKey(store contract.StateStore, key string) (string, bool) {
	raw, ok, err := store.Get(key)
	if err != nil {
		warnKey(key, err)
		return "", false
	}
	return raw, ok
}

func warnKey(key string, err error) {
	contract.LogWarnFields("ignoring persisted state, using default", err, logrus.Fields{"key": key})
}

// SaveFilter persists the filter as JSON.
func SaveFilter(store contract.StateStore, spec schema.FilterSpec) error {
	b, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	return store.Set(FilterKey, string(b))
}

// SaveSettings persists the level, timezone and work window.
func SaveSettings(store contract.StateStore, level schema.ViewLevel, s field.Settings) error {
	if err := store.Set(ViewLevelKey, string(level)); err != nil {
		return err
	}
	if err := store.Set(UseUTCKey, contract.FormatBool(s.UseUTC)); err != nil {
		return err
	}
	return store.Set(WorkHoursKey, FormatWorkHours(s.WorkHourStart, s.WorkHourEnd))
}

// SaveSession persists everything a later run needs to resume sess.
func SaveSession(store contract.StateStore, sess *Session) error {
	if err := SaveFilter(store, sess.Filter()); err != nil {
		return err
	}
	return SaveSettings(store, sess.View().Level, sess.Settings())
}
