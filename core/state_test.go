package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/gitpulse/core/field"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/iostate"
	"github.com/huangsam/gitpulse/schema"
)

func TestLoadStateDefaults(t *testing.T) {
	assert.Equal(t, DefaultState(), LoadState(nil))

	store := &iostate.MockStateStore{}
	store.On("Get", mock.Anything).Return("", false, nil)
	st := LoadState(store)
	assert.Equal(t, DefaultState(), st)
	store.AssertNumberOfCalls(t, "Get", len(StateKeys))
}

func TestLoadStateValues(t *testing.T) {
	store := &iostate.MockStateStore{}
	store.On("Get", FilterKey).Return(`{"tag":{"values":["bugfix"],"mode":"include"},"dateFrom":"2024-01-01"}`, true, nil)
	store.On("Get", ViewLevelKey).Return("Management", true, nil)
	store.On("Get", UseUTCKey).Return("yes", true, nil)
	store.On("Get", WorkHoursKey).Return("9-18", true, nil)

	st := LoadState(store)
	assert.Equal(t, []string{"bugfix"}, st.Filter.Tag.Values)
	assert.Equal(t, schema.IncludeMode, st.Filter.Tag.Mode)
	assert.Equal(t, "2024-01-01", st.Filter.DateFrom)
	assert.Equal(t, schema.ManagementLevel, st.Level)
	assert.True(t, st.UseUTC)
	assert.Equal(t, 9, st.WorkHourStart)
	assert.Equal(t, 18, st.WorkHourEnd)

	s := st.Settings()
	assert.True(t, s.UseUTC)
	assert.Equal(t, 9, s.WorkHourStart)
	store.AssertExpectations(t)
}

// Each key falls back on its own; a bad key never discards the others.
func TestLoadStateFallbackPerKey(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		err   error
	}{
		{"filter not json", FilterKey, "{not json", nil},
		{"filter bad mode", FilterKey, `{"tag":{"values":["x"],"mode":"sometimes"}}`, nil},
		{"filter bad date", FilterKey, `{"dateFrom":"01/02/2024"}`, nil},
		{"unknown level", ViewLevelKey, "intern", nil},
		{"bad utc", UseUTCKey, "maybe", nil},
		{"inverted work hours", WorkHoursKey, "17-9", nil},
		{"garbled work hours", WorkHoursKey, "nine to five", nil},
		{"store error", FilterKey, "", errors.New("disk gone")},
	}

	good := map[string]string{
		FilterKey:    `{"repo":{"values":["api"],"mode":"exclude"}}`,
		ViewLevelKey: "executive",
		UseUTCKey:    "yes",
		WorkHoursKey: "10-16",
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &iostate.MockStateStore{}
			for key, value := range good {
				if key == tt.key {
					store.On("Get", key).Return(tt.value, tt.err == nil, tt.err)
					continue
				}
				store.On("Get", key).Return(value, true, nil)
			}

			st := LoadState(store)
			def := DefaultState()

			if tt.key == FilterKey {
				assert.Equal(t, def.Filter, st.Filter)
			} else {
				assert.Equal(t, []string{"api"}, st.Filter.Repo.Values)
			}
			if tt.key == ViewLevelKey {
				assert.Equal(t, def.Level, st.Level)
			} else {
				assert.Equal(t, schema.ExecutiveLevel, st.Level)
			}
			if tt.key == UseUTCKey {
				assert.False(t, st.UseUTC)
			} else {
				assert.True(t, st.UseUTC)
			}
			if tt.key == WorkHoursKey {
				assert.Equal(t, def.WorkHourStart, st.WorkHourStart)
				assert.Equal(t, def.WorkHourEnd, st.WorkHourEnd)
			} else {
				assert.Equal(t, 10, st.WorkHourStart)
				assert.Equal(t, 16, st.WorkHourEnd)
			}
		})
	}
}

func TestParseWorkHours(t *testing.T) {
	start, end, err := ParseWorkHours(" 7 - 15 ")
	require.NoError(t, err)
	assert.Equal(t, 7, start)
	assert.Equal(t, 15, end)
	assert.Equal(t, "7-15", FormatWorkHours(start, end))

	for _, bad := range []string{"", "8", "a-17", "8-b", "12-12", "0-25"} {
		_, _, err := ParseWorkHours(bad)
		assert.Error(t, err, bad)
	}
}

func TestSaveSession(t *testing.T) {
	sess := NewSession(field.DefaultSettings())
	sess.SetLevel("executive")
	s := sess.Settings()
	s.UseUTC = true
	s.WorkHourStart, s.WorkHourEnd = 9, 18
	require.NoError(t, sess.SetSettings(s))

	store := &iostate.MockStateStore{}
	store.On("Set", FilterKey, `{"tag":{"values":["merge"],"mode":"exclude"},"author":{"values":null,"mode":"include"},"repo":{"values":null,"mode":"include"},"urgency":{"values":null,"mode":"include"},"impact":{"values":null,"mode":"include"}}`).Return(nil)
	store.On("Set", ViewLevelKey, "executive").Return(nil)
	store.On("Set", UseUTCKey, "yes").Return(nil)
	store.On("Set", WorkHoursKey, "9-18").Return(nil)

	require.NoError(t, SaveSession(store, sess))
	store.AssertExpectations(t)
}

func TestSaveSessionStopsOnError(t *testing.T) {
	store := &iostate.MockStateStore{}
	store.On("Set", FilterKey, mock.Anything).Return(errors.New("read-only"))

	err := SaveSession(store, NewSession(field.DefaultSettings()))
	assert.EqualError(t, err, "read-only")
	store.AssertNotCalled(t, "Set", ViewLevelKey, mock.Anything)
}

// A session saved by one run is resumed by the next.
func TestStateRoundTrip(t *testing.T) {
	saved := make(map[string]string)
	store := &iostate.MockStateStore{}
	store.On("Set", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved[args.String(0)] = args.String(1)
	}).Return(nil)

	sess := NewSession(field.DefaultSettings())
	sess.SetLevel("management")
	spec := schema.DefaultFilterSpec()
	spec.Author = schema.DimensionFilter{Values: []string{"ann@example.com"}, Mode: schema.IncludeMode}
	spec.DateTo = "2024-06-30"
	require.NoError(t, sess.SetFilter(spec))
	require.NoError(t, SaveSession(store, sess))

	require.Len(t, saved, len(StateKeys))
	reader := &iostate.MockStateStore{}
	for key, value := range saved {
		reader.On("Get", key).Return(value, true, nil)
	}
	st := LoadState(reader)
	assert.Equal(t, spec, st.Filter)
	assert.Equal(t, schema.ManagementLevel, st.Level)

	resumed, err := OpenSession(&contract.Config{WorkStart: contract.UnsetWorkHour, WorkEnd: contract.UnsetWorkHour}, reader)
	require.NoError(t, err)
	assert.Equal(t, schema.ManagementLevel, resumed.View().Level)
	assert.Equal(t, spec, resumed.Filter())
}
