package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/gitpulse/core/field"
	"github.com/huangsam/gitpulse/schema"
)

// baseInput mirrors the flag defaults registered by the root command.
func baseInput() *ConfigRawInput {
	return &ConfigRawInput{
		WorkStart:    UnsetWorkHour,
		WorkEnd:      UnsetWorkHour,
		Precision:    DefaultPrecision,
		Output:       "text",
		Color:        "yes",
		StateBackend: "sqlite",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "invalid precision", mutate: func(in *ConfigRawInput) { in.Precision = 3 }, expectError: true},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "invalid utc", mutate: func(in *ConfigRawInput) { in.UTC = "sometimes" }, expectError: true},
		{name: "limit too large", mutate: func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, expectError: true},
		{name: "negative offset", mutate: func(in *ConfigRawInput) { in.Offset = -1 }, expectError: true},
		{name: "inverted work hours", mutate: func(in *ConfigRawInput) { in.WorkStart, in.WorkEnd = 18, 9 }, expectError: true},
		{name: "bad holiday", mutate: func(in *ConfigRawInput) { in.Holidays = []string{"12/25"} }, expectError: true},
		{name: "bad from date", mutate: func(in *ConfigRawInput) { in.From = "last week" }, expectError: true},
		{name: "from after to", mutate: func(in *ConfigRawInput) { in.From, in.To = "2024-03-01", "2024-01-01" }, expectError: true},
		{name: "include and exclude tag", mutate: func(in *ConfigRawInput) {
			in.Tag, in.ExcludeTag = []string{"feature"}, []string{"merge"}
		}, expectError: true},
		{name: "invalid backend", mutate: func(in *ConfigRawInput) { in.StateBackend = "redis" }, expectError: true},
		{name: "mysql without dsn", mutate: func(in *ConfigRawInput) { in.StateBackend = "mysql" }, expectError: true},
		{name: "postgres with dsn", mutate: func(in *ConfigRawInput) {
			in.StateBackend = "postgresql"
			in.StateDBConnect = "host=localhost dbname=gitpulse"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := baseInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, baseInput()))

	assert.Equal(t, schema.ViewLevel(""), cfg.Level)
	assert.Nil(t, cfg.UseUTC)
	assert.Equal(t, UnsetWorkHour, cfg.WorkStart)
	assert.Equal(t, DefaultResultLimit, cfg.Limit)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.SQLiteBackend, cfg.StateBackend)
	assert.True(t, cfg.UseColors)
	assert.Nil(t, cfg.IsHoliday)
	assert.False(t, cfg.Filter.Active())
}

func TestProcessAndValidateSettings(t *testing.T) {
	input := baseInput()
	input.Level = " Executive "
	input.UTC = "yes"
	input.WorkStart = 9
	input.Privacy = true
	input.Holidays = []string{"2024-12-25,2024-01-01"}
	input.Data = []string{"a.json,b.json", " c.json "}

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, schema.ExecutiveLevel, cfg.Level)
	require.NotNil(t, cfg.UseUTC)
	assert.True(t, *cfg.UseUTC)
	assert.Equal(t, 9, cfg.WorkStart)
	assert.Equal(t, field.DefaultWorkHourEnd, cfg.WorkEnd)
	assert.Equal(t, []string{"a.json", "b.json", "c.json"}, cfg.DataFiles)
	assert.Equal(t, []string{"2024-12-25", "2024-01-01"}, cfg.Holidays)
	require.NotNil(t, cfg.IsHoliday)
	assert.True(t, cfg.IsHoliday(time.Date(2024, 12, 25, 15, 0, 0, 0, time.UTC)))

	s := cfg.Overlay(field.DefaultSettings())
	assert.True(t, s.UseUTC)
	assert.Equal(t, 9, s.WorkHourStart)
	assert.Equal(t, 17, s.WorkHourEnd)
	assert.True(t, s.PrivacyMode)
}

func TestUnknownLevelFallsBack(t *testing.T) {
	input := baseInput()
	input.Level = "intern"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.DeveloperLevel, cfg.Level)
}

func TestOverlayKeepsPersisted(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, baseInput()))

	persisted := field.DefaultSettings()
	persisted.UseUTC = true
	persisted.WorkHourStart, persisted.WorkHourEnd = 6, 14

	s := cfg.Overlay(persisted)
	assert.True(t, s.UseUTC)
	assert.Equal(t, 6, s.WorkHourStart)
	assert.Equal(t, 14, s.WorkHourEnd)
}

func TestFilterOverrides(t *testing.T) {
	input := baseInput()
	input.Tag = []string{"feature,bugfix"}
	input.ExcludeAuthor = []string{"bot@ci.io"}
	input.From = "2024-01-01"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	require.True(t, cfg.Filter.Active())

	base := schema.DefaultFilterSpec()
	base.Repo = schema.DimensionFilter{Values: []string{"api"}, Mode: schema.IncludeMode}
	got := cfg.Filter.Apply(base)

	assert.Equal(t, schema.DimensionFilter{Values: []string{"feature", "bugfix"}, Mode: schema.IncludeMode}, got.Tag)
	assert.Equal(t, schema.DimensionFilter{Values: []string{"bot@ci.io"}, Mode: schema.ExcludeMode}, got.Author)
	assert.Equal(t, []string{"api"}, got.Repo.Values, "untouched dimensions keep persisted values")
	assert.Equal(t, "2024-01-01", got.DateFrom)
	assert.Empty(t, got.DateTo)
	assert.Equal(t, []string{schema.TagMerge}, base.Tag.Values, "base spec is not mutated")
}

func TestConfigClone(t *testing.T) {
	utc := true
	cfg := &Config{
		DataFiles: []string{"a.json"},
		UseUTC:    &utc,
		Filter:    FilterOverrides{Include: map[schema.Dimension][]string{schema.TagDimension: {"x"}}},
	}
	clone := cfg.Clone()
	clone.DataFiles[0] = "b.json"
	*clone.UseUTC = false
	clone.Filter.Include[schema.TagDimension][0] = "y"

	assert.Equal(t, "a.json", cfg.DataFiles[0])
	assert.True(t, *cfg.UseUTC)
	assert.Equal(t, "x", cfg.Filter.Include[schema.TagDimension][0])
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{schema.SQLiteBackend, "", false},
		{schema.NoneBackend, "", false},
		{schema.MySQLBackend, "user:pass@tcp(localhost:3306)/gitpulse", false},
		{schema.MySQLBackend, "user:pass@localhost/gitpulse", true},
		{schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{schema.PostgreSQLBackend, "host=localhost dbname=gitpulse", false},
		{schema.PostgreSQLBackend, "dbname=gitpulse", true},
		{schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend)+"/"+tt.conn, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
