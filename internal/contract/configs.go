package contract

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/core/field"
	"github.com/huangsam/gitpulse/core/view"
	"github.com/huangsam/gitpulse/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 50
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	UnsetWorkHour      = -1
)

// FilterOverrides holds filter values given on the command line.
// They replace the persisted filter per dimension, never merge with it.
type FilterOverrides struct {
	Include  map[schema.Dimension][]string
	Exclude  map[schema.Dimension][]string
	DateFrom string
	DateTo   string
}

// Active reports whether any override was given.
func (o FilterOverrides) Active() bool {
	return len(o.Include) > 0 || len(o.Exclude) > 0 || o.DateFrom != "" || o.DateTo != ""
}

// Apply returns spec with the overrides laid on top.
func (o FilterOverrides) Apply(spec schema.FilterSpec) schema.FilterSpec {
	out := spec.Clone()
	for dim, values := range o.Include {
		if d := out.Dimension(dim); d != nil {
			*d = schema.DimensionFilter{Values: slices.Clone(values), Mode: schema.IncludeMode}
		}
	}
	for dim, values := range o.Exclude {
		if d := out.Dimension(dim); d != nil {
			*d = schema.DimensionFilter{Values: slices.Clone(values), Mode: schema.ExcludeMode}
		}
	}
	if o.DateFrom != "" {
		out.DateFrom = o.DateFrom
	}
	if o.DateTo != "" {
		out.DateTo = o.DateTo
	}
	return out
}

// Config holds the runtime configuration.
// This struct is the "final, validated" config.
type Config struct {
	DataFiles []string

	Level     schema.ViewLevel // empty keeps the persisted level
	UseUTC    *bool            // nil keeps the persisted timezone
	WorkStart int              // UnsetWorkHour keeps the persisted window
	WorkEnd   int
	Privacy   bool
	Holidays  []string
	IsHoliday field.HolidayFunc

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	Limit      int
	Offset     int

	StateBackend   schema.DatabaseBackend
	StateDBConnect string // Please use env var as this is plaintext

	Filter  FilterOverrides
	Persist bool
	Verbose bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Data           []string `mapstructure:"data"`
	Level          string   `mapstructure:"level"`
	UTC            string   `mapstructure:"utc"`
	WorkStart      int      `mapstructure:"work-start"`
	WorkEnd        int      `mapstructure:"work-end"`
	Privacy        bool     `mapstructure:"privacy"`
	Output         string   `mapstructure:"output"`
	OutputFile     string   `mapstructure:"output-file"`
	Precision      int      `mapstructure:"precision"`
	Width          int      `mapstructure:"width"`
	Color          string   `mapstructure:"color"`
	StateBackend   string   `mapstructure:"state-backend"`
	StateDBConnect string   `mapstructure:"state-db-connect"`
	Persist        bool     `mapstructure:"persist"`
	Verbose        bool     `mapstructure:"verbose"`

	// --- Filter override flags ---
	Tag           []string `mapstructure:"tag"`
	ExcludeTag    []string `mapstructure:"exclude-tag"`
	Author        []string `mapstructure:"author"`
	ExcludeAuthor []string `mapstructure:"exclude-author"`
	Repo          []string `mapstructure:"repo"`
	ExcludeRepo   []string `mapstructure:"exclude-repo"`
	Urgency       []string `mapstructure:"urgency"`
	Impact        []string `mapstructure:"impact"`
	From          string   `mapstructure:"from"`
	To            string   `mapstructure:"to"`

	// --- Fields from detailCmd.Flags() ---
	Limit  int `mapstructure:"limit"`
	Offset int `mapstructure:"offset"`

	// --- Holiday calendar from config file ---
	Holidays []string `mapstructure:"holidays"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.DataFiles = slices.Clone(c.DataFiles)
	clone.Holidays = slices.Clone(c.Holidays)
	if c.UseUTC != nil {
		v := *c.UseUTC
		clone.UseUTC = &v
	}
	clone.Filter.Include = cloneDimensionValues(c.Filter.Include)
	clone.Filter.Exclude = cloneDimensionValues(c.Filter.Exclude)
	return &clone
}

func cloneDimensionValues(m map[schema.Dimension][]string) map[schema.Dimension][]string {
	if m == nil {
		return nil
	}
	out := make(map[schema.Dimension][]string, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}

// Overlay applies the explicit settings in c on top of persisted settings.
func (c *Config) Overlay(s field.Settings) field.Settings {
	if c.UseUTC != nil {
		s.UseUTC = *c.UseUTC
	}
	if c.WorkStart != UnsetWorkHour {
		s.WorkHourStart = c.WorkStart
		s.WorkHourEnd = c.WorkEnd
	}
	s.PrivacyMode = c.Privacy
	s.IsHoliday = c.IsHoliday
	return s
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSettings(cfg, input); err != nil {
		return err
	}
	if err := processFilterOverrides(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// validateSimpleInputs processes and validates all non-setting fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.DataFiles = splitList(input.Data)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Persist = input.Persist
	cfg.Verbose = input.Verbose

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	switch {
	case input.Limit == 0:
		cfg.Limit = DefaultResultLimit
	case input.Limit < 0 || input.Limit > MaxResultLimit:
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	default:
		cfg.Limit = input.Limit
	}
	if input.Offset < 0 {
		return fmt.Errorf("offset cannot be negative (received %d)", input.Offset)
	}
	cfg.Offset = input.Offset

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, html, parquet", input.Output)
	}
	return nil
}

// processSettings handles the view level, timezone, work hours, privacy and holidays.
func processSettings(cfg *Config, input *ConfigRawInput) error {
	if level := strings.TrimSpace(input.Level); level != "" {
		if !view.IsKnown(level) {
			logger.WithField("level", level).Warn("unknown view level, using developer")
		}
		cfg.Level = view.Resolve(level).Level
	}

	if input.UTC != "" {
		utc, err := ParseBoolString(input.UTC)
		if err != nil {
			return fmt.Errorf("invalid --utc value: %w", err)
		}
		cfg.UseUTC = &utc
	}

	cfg.WorkStart, cfg.WorkEnd = UnsetWorkHour, UnsetWorkHour
	if input.WorkStart != UnsetWorkHour || input.WorkEnd != UnsetWorkHour {
		start, end := input.WorkStart, input.WorkEnd
		if start == UnsetWorkHour {
			start = field.DefaultWorkHourStart
		}
		if end == UnsetWorkHour {
			end = field.DefaultWorkHourEnd
		}
		if err := field.ValidateWorkHours(start, end); err != nil {
			return err
		}
		cfg.WorkStart, cfg.WorkEnd = start, end
	}

	cfg.Privacy = input.Privacy
	cfg.Holidays = splitList(input.Holidays)
	isHoliday, err := field.HolidayCalendar(cfg.Holidays)
	if err != nil {
		return err
	}
	cfg.IsHoliday = isHoliday
	return nil
}

// processFilterOverrides turns the per-dimension flags into FilterOverrides.
func processFilterOverrides(cfg *Config, input *ConfigRawInput) error {
	pairs := []struct {
		dim              schema.Dimension
		include, exclude []string
	}{
		{schema.TagDimension, input.Tag, input.ExcludeTag},
		{schema.AuthorDimension, input.Author, input.ExcludeAuthor},
		{schema.RepoDimension, input.Repo, input.ExcludeRepo},
		{schema.UrgencyDimension, input.Urgency, nil},
		{schema.ImpactDimension, input.Impact, nil},
	}

	overrides := FilterOverrides{}
	for _, p := range pairs {
		include, exclude := splitList(p.include), splitList(p.exclude)
		if len(include) > 0 && len(exclude) > 0 {
			return fmt.Errorf("cannot both include and exclude %s values", p.dim)
		}
		if len(include) > 0 {
			if overrides.Include == nil {
				overrides.Include = make(map[schema.Dimension][]string)
			}
			overrides.Include[p.dim] = include
		}
		if len(exclude) > 0 {
			if overrides.Exclude == nil {
				overrides.Exclude = make(map[schema.Dimension][]string)
			}
			overrides.Exclude[p.dim] = exclude
		}
	}

	for flag, value := range map[string]string{"from": input.From, "to": input.To} {
		if value == "" {
			continue
		}
		if _, err := time.Parse(schema.DateLayout, value); err != nil {
			return fmt.Errorf("invalid --%s date '%s'. Expected YYYY-MM-DD", flag, value)
		}
	}
	overrides.DateFrom, overrides.DateTo = input.From, input.To
	if overrides.DateFrom != "" && overrides.DateTo != "" && overrides.DateFrom > overrides.DateTo {
		return fmt.Errorf("--from (%s) cannot be after --to (%s)", overrides.DateFrom, overrides.DateTo)
	}

	cfg.Filter = overrides
	return nil
}

// validateBackendConfigs validates the state backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.StateBackend = schema.DatabaseBackend(strings.ToLower(input.StateBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StateBackend]; !ok {
		return fmt.Errorf("invalid state backend '%s'. must be sqlite, mysql, postgresql, none", input.StateBackend)
	}
	cfg.StateDBConnect = input.StateDBConnect
	return ValidateDatabaseConnectionString(cfg.StateBackend, cfg.StateDBConnect)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("state-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("state-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// splitList trims entries, splits comma-joined values and drops blanks.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
