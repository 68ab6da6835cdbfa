// Package parquet exports filtered commits and their timeline to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"cmp"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/huangsam/gitpulse/core/agg"
	"github.com/huangsam/gitpulse/core/field"
	"github.com/huangsam/gitpulse/schema"
)

// CommitRow is one exported commit with its derived fields resolved.
type CommitRow struct {
	// SHA identifies the commit
	SHA string `parquet:"sha,snappy"`

	// Timestamp is the commit time in UTC (nullable when unparseable)
	Timestamp *time.Time `parquet:"timestamp,optional,snappy"`

	AuthorName string `parquet:"author_name,snappy"`

	// AuthorEmail is omitted under privacy mode
	AuthorEmail *string `parquet:"author_email,optional,snappy"`

	RepoID string   `parquet:"repo_id,snappy"`
	Tags   []string `parquet:"tags,list"`

	Urgency       *int32  `parquet:"urgency,optional"`
	UrgencyBucket *string `parquet:"urgency_bucket,optional,snappy"`
	Complexity    *int32  `parquet:"complexity,optional"`
	Impact        *string `parquet:"impact,optional,snappy"`
	Risk          *string `parquet:"risk,optional,snappy"`
	Debt          *string `parquet:"debt,optional,snappy"`
	Semver        *string `parquet:"semver,optional,snappy"`
	Epic          *string `parquet:"epic,optional,snappy"`

	Additions    int32 `parquet:"additions"`
	Deletions    int32 `parquet:"deletions"`
	FilesChanged int32 `parquet:"files_changed"`

	// Hour and DayOfWeek are in the display zone (nullable when untimed)
	Hour         *int32 `parquet:"hour,optional"`
	DayOfWeek    *int32 `parquet:"day_of_week,optional"`
	IsWeekend    bool   `parquet:"is_weekend"`
	IsAfterHours bool   `parquet:"is_after_hours"`
	IsHoliday    bool   `parquet:"is_holiday"`
}

// TimelineRow is one week or day bucket of the timeline.
type TimelineRow struct {
	BucketKey   string    `parquet:"bucket_key,snappy"`
	BucketStart time.Time `parquet:"bucket_start,snappy"`
	Timing      string    `parquet:"timing,snappy"`
	CommitCount int32     `parquet:"commit_count"`
	Repos       []string  `parquet:"repos,list"`
	TopTag      *string   `parquet:"top_tag,optional,snappy"`
}

func optionalString(v string, ok bool) *string {
	if !ok || v == "" {
		return nil
	}
	return &v
}

func optionalInt(v int, ok bool) *int32 {
	if !ok {
		return nil
	}
	n := int32(v)
	return &n
}

// CommitRows converts commits into export rows under s. Names are sanitized
// and emails dropped when privacy mode is on.
func CommitRows(commits []schema.Commit, s field.Settings) []CommitRow {
	sanitizer := field.NewSanitizer(s.PrivacyMode)
	rows := make([]CommitRow, 0, len(commits))
	for _, c := range commits {
		email := field.AuthorEmail(c)
		row := CommitRow{
			SHA:          c.SHA,
			AuthorName:   sanitizer.Name(field.AuthorName(c), email),
			AuthorEmail:  optionalString(email, !s.PrivacyMode && !field.IsUnknownEmail(email)),
			RepoID:       field.RepoID(c),
			Tags:         field.Tags(c),
			Additions:    int32(field.Additions(c)),
			Deletions:    int32(field.Deletions(c)),
			FilesChanged: int32(field.FilesChanged(c)),
		}
		if t, ok := field.ParseTimestamp(c.Timestamp); ok {
			utc := t.UTC()
			row.Timestamp = &utc
		}

		u, ok := field.Urgency(c)
		row.Urgency = optionalInt(u, ok)
		b, ok := field.UrgencyBucket(c)
		row.UrgencyBucket = optionalString(string(b), ok)
		row.Complexity = optionalInt(field.Complexity(c))
		row.Impact = optionalString(field.Impact(c))
		row.Risk = optionalString(field.Risk(c))
		row.Debt = optionalString(field.Debt(c))
		row.Semver = optionalString(field.Semver(c))
		row.Epic = optionalString(field.Epic(c))

		if dt, ok := field.DateTime(c, s); ok {
			row.Hour = optionalInt(dt.Hour, true)
			row.DayOfWeek = optionalInt(dt.DayOfWeek, true)
		}
		if wp, ok := field.WorkPattern(c, s); ok {
			row.IsWeekend = wp.IsWeekend
			row.IsAfterHours = wp.IsAfterHours
			row.IsHoliday = wp.IsHoliday
		}
		rows = append(rows, row)
	}
	return rows
}

// TimelineRows converts the view's timeline into export rows, most recent first.
func TimelineRows(commits []schema.Commit, view schema.ViewConfig, s field.Settings) []TimelineRow {
	timing := schema.TimingDay
	if view.Timing == schema.TimingWeek {
		timing = schema.TimingWeek
	}
	buckets := agg.Timeline(commits, view, s)
	rows := make([]TimelineRow, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, TimelineRow{
			BucketKey:   b.Key,
			BucketStart: b.Start.UTC(),
			Timing:      string(timing),
			CommitCount: int32(b.Count),
			Repos:       b.Repos,
			TopTag:      topTag(b.Tags),
		})
	}
	return rows
}

// topTag picks the most frequent tag; ties go to the first name.
func topTag(tags map[string]int) *string {
	names := slices.Sorted(maps.Keys(tags))
	if len(names) == 0 {
		return nil
	}
	best := slices.MaxFunc(names, func(a, b string) int { return cmp.Compare(tags[a], tags[b]) })
	return &best
}

// TimelinePath derives the timeline file name from the commit file name,
// e.g. out.parquet becomes out_timeline.parquet.
func TimelinePath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_timeline" + cmp.Or(ext, ".parquet")
}

// WriteCommitsParquet writes commit rows to outputPath.
func WriteCommitsParquet(rows []CommitRow, outputPath string) error {
	return writeParquet(rows, outputPath)
}

// WriteTimelineParquet writes timeline rows to outputPath.
func WriteTimelineParquet(rows []TimelineRow, outputPath string) error {
	return writeParquet(rows, outputPath)
}

// writeParquet infers the schema from T's struct tags and writes every row.
func writeParquet[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}
