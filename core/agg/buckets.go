package agg

import (
	"slices"
	"time"

	"github.com/huangsam/gitpulse/core/field"
	"github.com/huangsam/gitpulse/schema"
)

// ByWeek groups timed commits by Monday week start, most recent first.
func ByWeek(commits []schema.Commit, s field.Settings) []schema.TimeBucket {
	return bucketize(commits, s, WeekStart)
}

// ByDay groups timed commits by calendar day, most recent first.
func ByDay(commits []schema.Commit, s field.Settings) []schema.TimeBucket {
	return bucketize(commits, s, DayStart)
}

// Timeline picks weekly buckets for week timing and daily buckets otherwise.
func Timeline(commits []schema.Commit, cfg schema.ViewConfig, s field.Settings) []schema.TimeBucket {
	if cfg.Timing == schema.TimingWeek {
		return ByWeek(commits, s)
	}
	return ByDay(commits, s)
}

func bucketize(commits []schema.Commit, s field.Settings, start func(time.Time) time.Time) []schema.TimeBucket {
	index := make(map[string]int)
	buckets := make([]schema.TimeBucket, 0)
	repos := make([]map[string]struct{}, 0)

	for _, c := range commits {
		t, ok := field.Time(c, s)
		if !ok {
			continue
		}
		bs := start(t)
		key := bs.Format(schema.DateLayout)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, schema.TimeBucket{
				Key:   key,
				Start: bs,
				Tags:  make(map[string]int),
			})
			repos = append(repos, make(map[string]struct{}))
		}
		b := &buckets[i]
		b.Count++
		b.Commits = append(b.Commits, c)
		for _, tag := range field.Tags(c) {
			b.Tags[tag]++
		}
		repos[i][field.RepoID(c)] = struct{}{}
	}

	for i := range buckets {
		names := make([]string, 0, len(repos[i]))
		for r := range repos[i] {
			names = append(names, r)
		}
		slices.Sort(names)
		buckets[i].Repos = names
	}

	slices.SortStableFunc(buckets, func(a, b schema.TimeBucket) int {
		return b.Start.Compare(a.Start)
	})
	return buckets
}
