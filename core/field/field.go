// Package field normalizes heterogeneous commit records into canonical values.
// Accessors never panic: missing data reads as a default or as ok=false.
package field

import (
	"strings"
	"time"

	"github.com/huangsam/gitpulse/schema"
)

// UnknownName is the display name for commits with no usable author.
const UnknownName = "Unknown"

// unknownEmailPrefix marks synthesized emails for commits without author identity.
const unknownEmailPrefix = "unknown+"

// AuthorEmail returns the lowercase grouping email of the commit's author.
// Commits without any identity get a sentinel derived from the SHA, so repeated
// calls on the same commit always agree.
func AuthorEmail(c schema.Commit) string {
	for _, v := range []string{c.Author.Email, c.AuthorEmail, c.AuthorID} {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			return v
		}
	}
	return unknownEmailPrefix + c.SHA
}

// IsUnknownEmail reports whether email is a synthesized sentinel.
func IsUnknownEmail(email string) bool {
	return strings.HasPrefix(email, unknownEmailPrefix)
}

// AuthorName returns the raw display name, before any privacy redaction.
func AuthorName(c schema.Commit) string {
	for _, v := range []string{c.Author.Name, c.AuthorName} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	email := AuthorEmail(c)
	if !IsUnknownEmail(email) {
		if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
			return local
		}
		return email
	}
	return UnknownName
}

// Tags returns the commit's trimmed, deduplicated tags in first-seen order.
// The legacy single tag field is read as well. Never nil.
func Tags(c schema.Commit) []string {
	tags := make([]string, 0, len(c.Tags)+1)
	seen := make(map[string]struct{}, len(c.Tags)+1)
	add := func(t string) {
		t = strings.TrimSpace(t)
		if t == "" {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	for _, t := range c.Tags {
		add(t)
	}
	add(c.Tag)
	return tags
}

// HasTag reports whether the commit carries tag.
func HasTag(c schema.Commit, tag string) bool {
	for _, t := range Tags(c) {
		if t == tag {
			return true
		}
	}
	return false
}

// Additions returns lines added, 0 when absent.
func Additions(c schema.Commit) int { return max(c.Stats.Additions, 0) }

// Deletions returns lines removed, 0 when absent.
func Deletions(c schema.Commit) int { return max(c.Stats.Deletions, 0) }

// Churn returns additions plus deletions.
func Churn(c schema.Commit) int { return Additions(c) + Deletions(c) }

// FilesChanged prefers the files list and falls back to the stats count.
func FilesChanged(c schema.Commit) int {
	if len(c.Files) > 0 {
		return len(c.Files)
	}
	return max(c.Stats.FilesChanged, 0)
}

// RepoID returns the repository id, or schema.DefaultRepoID when absent.
func RepoID(c schema.Commit) string {
	if id := strings.TrimSpace(c.RepoID); id != "" {
		return id
	}
	return schema.DefaultRepoID
}

// Urgency returns the urgency rating when defined.
func Urgency(c schema.Commit) (int, bool) {
	return c.Urgency.Value, c.Urgency.Valid
}

// Complexity returns the complexity rating when defined.
func Complexity(c schema.Commit) (int, bool) {
	return c.Complexity.Value, c.Complexity.Valid
}

// BucketForUrgency maps a 1-5 urgency onto its band. 3 is always normal.
func BucketForUrgency(u int) (schema.UrgencyBucket, bool) {
	switch {
	case u < schema.MinRating || u > schema.MaxRating:
		return "", false
	case u <= 2:
		return schema.UrgencyPlanned, true
	case u == 3:
		return schema.UrgencyNormal, true
	default:
		return schema.UrgencyReactive, true
	}
}

// UrgencyBucket returns the band of the commit's urgency when defined.
func UrgencyBucket(c schema.Commit) (schema.UrgencyBucket, bool) {
	u, ok := Urgency(c)
	if !ok {
		return "", false
	}
	return BucketForUrgency(u)
}

// Impact returns the impact category when it is a known value.
func Impact(c schema.Commit) (string, bool) { return category(c.Impact, schema.ValidImpacts) }

// Risk returns the risk category when it is a known value.
func Risk(c schema.Commit) (string, bool) { return category(c.Risk, schema.ValidRisks) }

// Debt returns the debt category when it is a known value.
func Debt(c schema.Commit) (string, bool) { return category(c.Debt, schema.ValidDebts) }

// Semver returns the semver category when it is a known value.
func Semver(c schema.Commit) (string, bool) { return category(c.Semver, schema.ValidSemvers) }

// Epic returns the free-form epic label when set.
func Epic(c schema.Commit) (string, bool) {
	e := strings.TrimSpace(c.Epic)
	return e, e != ""
}

func category(v string, valid map[string]struct{}) (string, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if _, ok := valid[v]; !ok {
		return "", false
	}
	return v, true
}

// Time returns the commit time in the settings' zone.
// A missing or unparseable timestamp returns ok=false.
func Time(c schema.Commit, s Settings) (time.Time, bool) {
	t, ok := ParseTimestamp(c.Timestamp)
	if !ok {
		return time.Time{}, false
	}
	return t.In(s.Location()), true
}

// DateTime returns the hour and weekday of the commit.
func DateTime(c schema.Commit, s Settings) (schema.DateTime, bool) {
	t, ok := Time(c, s)
	if !ok {
		return schema.DateTime{}, false
	}
	return schema.DateTime{Hour: t.Hour(), DayOfWeek: int(t.Weekday())}, true
}

// WorkPattern classifies the commit against the work window and holiday calendar.
func WorkPattern(c schema.Commit, s Settings) (schema.WorkPattern, bool) {
	t, ok := Time(c, s)
	if !ok {
		return schema.WorkPattern{}, false
	}
	wd := t.Weekday()
	h := t.Hour()
	wp := schema.WorkPattern{
		IsWeekend:    wd == time.Saturday || wd == time.Sunday,
		IsAfterHours: h < s.WorkHourStart || h >= s.WorkHourEnd,
	}
	if s.IsHoliday != nil {
		wp.IsHoliday = s.IsHoliday(t)
	}
	return wp, true
}
