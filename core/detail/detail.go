// Package detail resolves the exact commits behind a visual element.
// Every selection re-applies the predicate that built the aggregate, so the
// result always matches the aggregate's count over the same filtered commits.
package detail

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/core/agg"
	"github.com/huangsam/gitpulse/core/field"
	"github.com/huangsam/gitpulse/schema"
)

// DefaultPageSize is the page size used when none is given.
const DefaultPageSize = 50

// Selection errors.
var (
	ErrUnknownSelector = errors.New("unknown selector")
	ErrInvalidSelector = errors.New("invalid selector value")
)

// predicate decides membership; title names the selection.
type predicate struct {
	match func(schema.Commit) bool
	title string
}

// Select returns the commits of the filtered set matching sel, newest first.
// Commits without a timestamp are listed last in input order.
func Select(commits []schema.Commit, sel schema.Selector, s field.Settings) (schema.DetailSelection, error) {
	p, err := resolve(commits, sel, s)
	if err != nil {
		return schema.DetailSelection{}, err
	}

	type timed struct {
		c  schema.Commit
		t  time.Time
		ok bool
	}
	matched := make([]timed, 0)
	for _, c := range commits {
		if !p.match(c) {
			continue
		}
		t, ok := field.ParseTimestamp(c.Timestamp)
		matched = append(matched, timed{c: c, t: t, ok: ok})
	}
	slices.SortStableFunc(matched, func(a, b timed) int {
		switch {
		case a.ok && b.ok:
			return b.t.Compare(a.t)
		case a.ok:
			return -1
		case b.ok:
			return 1
		default:
			return 0
		}
	})

	out := make([]schema.Commit, len(matched))
	for i, m := range matched {
		out[i] = m.c
	}
	return schema.DetailSelection{
		Title:    p.title,
		Subtitle: Subtitle(len(out)),
		Commits:  out,
	}, nil
}

// Subtitle formats a commit count, e.g. "1 commit" or "12 commits".
func Subtitle(n int) string {
	if n == 1 {
		return "1 commit"
	}
	return strconv.Itoa(n) + " commits"
}

// Paginate returns one window of sel. A non-positive limit uses DefaultPageSize;
// offsets are clamped into range.
func Paginate(sel schema.DetailSelection, offset, limit int) schema.DetailPage {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	total := len(sel.Commits)
	offset = min(max(offset, 0), total)
	end := min(offset+limit, total)
	return schema.DetailPage{
		Title:      sel.Title,
		Subtitle:   sel.Subtitle,
		FilterInfo: sel.FilterInfo,
		Commits:    slices.Clone(sel.Commits[offset:end]),
		Offset:     offset,
		Limit:      limit,
		Total:      total,
		HasMore:    end < total,
	}
}

// ParseSelector parses "kind" or "kind=value" as typed on the command line.
func ParseSelector(raw string) (schema.Selector, error) {
	kind, value, _ := strings.Cut(strings.TrimSpace(raw), "=")
	sel := schema.Selector{Kind: schema.SelectorKind(strings.ToLower(strings.TrimSpace(kind))), Value: strings.TrimSpace(value)}
	if sel.Kind == "" {
		return sel, fmt.Errorf("%w: empty selector", ErrUnknownSelector)
	}
	return sel, nil
}

func resolve(commits []schema.Commit, sel schema.Selector, s field.Settings) (predicate, error) {
	v := strings.TrimSpace(sel.Value)
	lower := strings.ToLower(v)

	switch sel.Kind {
	case schema.SelectAll:
		return predicate{match: func(schema.Commit) bool { return true }, title: "All Commits"}, nil

	case schema.SelectTag:
		return predicate{match: func(c schema.Commit) bool { return field.HasTag(c, v) }, title: "Tag: " + v}, nil

	case schema.SelectUrgency:
		return predicate{match: func(c schema.Commit) bool {
			u, ok := field.Urgency(c)
			if !ok {
				return false
			}
			b, _ := field.BucketForUrgency(u)
			return string(b) == lower || strconv.Itoa(u) == v
		}, title: "Urgency: " + v}, nil

	case schema.SelectAuthor:
		match := authorMatch(lower, s)
		return predicate{match: match, title: "Author: " + displayName(commits, match, lower, s)}, nil

	case schema.SelectRepo:
		return predicate{match: func(c schema.Commit) bool { return field.RepoID(c) == v }, title: "Repository: " + v}, nil

	case schema.SelectGroup:
		mode := cmp.Or(sel.Mode, schema.ContributorsIndividual)
		if mode == schema.ContributorsIndividual {
			match := authorMatch(lower, s)
			return predicate{match: match, title: displayName(commits, match, lower, s)}, nil
		}
		return predicate{match: func(c schema.Commit) bool { return agg.GroupKey(c, mode) == v }, title: v}, nil

	case schema.SelectWeek:
		return predicate{match: func(c schema.Commit) bool {
			k, ok := agg.WeekKey(c, s)
			return ok && k == v
		}, title: "Week of " + v}, nil

	case schema.SelectDay:
		return predicate{match: func(c schema.Commit) bool {
			k, ok := agg.DayKey(c, s)
			return ok && k == v
		}, title: v}, nil

	case schema.SelectMonth:
		return predicate{match: func(c schema.Commit) bool {
			k, ok := agg.MonthKey(c)
			return ok && k == v
		}, title: v}, nil

	case schema.SelectHourCell:
		h, d, err := agg.ParseHourCellKey(v)
		if err != nil {
			return predicate{}, fmt.Errorf("%w: %v", ErrInvalidSelector, err)
		}
		return predicate{match: func(c schema.Commit) bool {
			dt, ok := field.DateTime(c, s)
			return ok && dt.Hour == h && dt.DayOfWeek == d
		}, title: fmt.Sprintf("%s %02d:00-%02d:59", time.Weekday(d), h, h)}, nil

	case schema.SelectWeekday:
		wd, ok := agg.ParseWeekday(v)
		if !ok {
			return predicate{}, fmt.Errorf("%w: weekday %q", ErrInvalidSelector, v)
		}
		return predicate{match: func(c schema.Commit) bool {
			dt, ok := field.DateTime(c, s)
			return ok && dt.DayOfWeek == int(wd)
		}, title: wd.String()}, nil

	case schema.SelectRisk:
		return categoryPredicate("Risk", lower, field.Risk), nil
	case schema.SelectDebt:
		return categoryPredicate("Debt", lower, field.Debt), nil
	case schema.SelectImpact:
		return categoryPredicate("Impact", lower, field.Impact), nil
	case schema.SelectSemver:
		return categoryPredicate("Semver", lower, field.Semver), nil
	case schema.SelectEpic:
		return categoryPredicate("Epic", v, field.Epic), nil

	case schema.SelectComplexity:
		n, err := strconv.Atoi(v)
		if err != nil || n < schema.MinRating || n > schema.MaxRating {
			return predicate{}, fmt.Errorf("%w: complexity %q", ErrInvalidSelector, v)
		}
		return predicate{match: func(c schema.Commit) bool {
			cx, ok := field.Complexity(c)
			return ok && cx == n
		}, title: "Complexity " + v}, nil

	default:
		return predicate{}, fmt.Errorf("%w: %q", ErrUnknownSelector, sel.Kind)
	}
}

func categoryPredicate(label, want string, value func(schema.Commit) (string, bool)) predicate {
	return predicate{match: func(c schema.Commit) bool {
		got, ok := value(c)
		return ok && got == want
	}, title: label + ": " + want}
}

// authorMatch matches a lowercase author email. Under privacy mode the
// author's pseudonym is accepted too, since that is the key the dashboard shows.
func authorMatch(want string, s field.Settings) func(schema.Commit) bool {
	return func(c schema.Commit) bool {
		email := field.AuthorEmail(c)
		return email == want || (s.PrivacyMode && field.Pseudonym(email) == want)
	}
}

// displayName resolves an author title from the first matching commit.
func displayName(commits []schema.Commit, match func(schema.Commit) bool, email string, s field.Settings) string {
	for _, c := range commits {
		if match(c) {
			return field.SanitizeName(field.AuthorName(c), field.AuthorEmail(c), s.PrivacyMode)
		}
	}
	if s.PrivacyMode && field.IsPseudonym(email) {
		return email
	}
	return field.SanitizeName(email, email, s.PrivacyMode)
}
