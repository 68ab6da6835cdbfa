package agg

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/huangsam/gitpulse/core/field"
	"github.com/huangsam/gitpulse/schema"
)

// Placeholder is shown when a metric has no data to divide by.
const Placeholder = "-"

// CardFunc computes one metric card over the filtered commits.
type CardFunc func(commits []schema.Commit, s field.Settings) schema.MetricCard

// CardFuncs lists every metric card in display order.
var CardFuncs = []CardFunc{
	TotalCommitsCard,
	ContributorsCard,
	LinesChangedCard,
	AvgCommitSizeCard,
	BugfixRatioCard,
	FeatureRatioCard,
	AfterHoursCard,
	WeekendCard,
	HolidayCard,
	ReactiveShareCard,
	DebtBalanceCard,
	SecurityCard,
	AvgComplexityCard,
	TopTagCard,
	BusiestWeekdayCard,
	FilesPerCommitCard,
}

// Cards computes every metric card.
func Cards(commits []schema.Commit, s field.Settings) []schema.MetricCard {
	cards := make([]schema.MetricCard, 0, len(CardFuncs))
	for _, fn := range CardFuncs {
		cards = append(cards, fn(commits, s))
	}
	return cards
}

// Percent formats n/d as a whole percentage, "0%" when d is 0.
func Percent(n, d int) string {
	if d <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%.0f%%", 100*float64(n)/float64(d))
}

// Ratio formats n/d with one decimal, Placeholder when d is 0.
func Ratio(n, d int) string {
	if d <= 0 {
		return Placeholder
	}
	return fmt.Sprintf("%.1f", float64(n)/float64(d))
}

// plural formats "1 commit" / "1,204 commits". Words ending in y take "ies".
func plural(n int, word string) string {
	if n != 1 {
		if stem, ok := strings.CutSuffix(word, "y"); ok {
			word = stem + "ie"
		}
		word += "s"
	}
	return humanize.Comma(int64(n)) + " " + word
}

func countTagged(commits []schema.Commit, tag string) int {
	n := 0
	for _, c := range commits {
		if field.HasTag(c, tag) {
			n++
		}
	}
	return n
}

// TotalCommitsCard counts commits and the repositories they span.
func TotalCommitsCard(commits []schema.Commit, _ field.Settings) schema.MetricCard {
	repos := make(map[string]struct{})
	for _, c := range commits {
		repos[field.RepoID(c)] = struct{}{}
	}
	return schema.MetricCard{
		Key:   "total_commits",
		Title: "Total Commits",
		Value: humanize.Comma(int64(len(commits))),
		Sub:   "across " + plural(len(repos), "repository"),
	}
}

// ContributorsCard counts distinct authors.
func ContributorsCard(commits []schema.Commit, _ field.Settings) schema.MetricCard {
	n := ContributorCount(commits)
	return schema.MetricCard{
		Key:   "contributors",
		Title: "Contributors",
		Value: humanize.Comma(int64(n)),
		Sub:   Ratio(len(commits), n) + " commits each",
	}
}

// LinesChangedCard sums additions and deletions.
func LinesChangedCard(commits []schema.Commit, _ field.Settings) schema.MetricCard {
	adds, dels := 0, 0
	for _, c := range commits {
		adds += field.Additions(c)
		dels += field.Deletions(c)
	}
	return schema.MetricCard{
		Key:   "lines_changed",
		Title: "Lines Changed",
		Value: humanize.Comma(int64(adds + dels)),
		Sub:   fmt.Sprintf("+%s / -%s", humanize.Comma(int64(adds)), humanize.Comma(int64(dels))),
	}
}

// AvgCommitSizeCard averages churn per commit.
func AvgCommitSizeCard(commits []schema.Commit, _ field.Settings) schema.MetricCard {
	churn := 0
	for _, c := range commits {
		churn += field.Churn(c)
	}
	value := Placeholder
	if len(commits) > 0 {
		value = humanize.Comma(int64(churn / len(commits)))
	}
	return schema.MetricCard{
		Key:   "avg_commit_size",
		Title: "Avg Commit Size",
		Value: value,
		Sub:   "lines per commit",
	}
}

// BugfixRatioCard is the share of commits tagged bugfix.
func BugfixRatioCard(commits []schema.Commit, _ field.Settings) schema.MetricCard {
	n := countTagged(commits, schema.TagBugfix)
	return schema.MetricCard{
		Key:   "bugfix_ratio",
		Title: "Bugfix Ratio",
		Value: Percent(n, len(commits)),
		Sub:   plural(n, "bugfix commit"),
	}
}

// FeatureRatioCard is the share of commits tagged feature.
func FeatureRatioCard(commits []schema.Commit, _ field.Settings) schema.MetricCard {
	n := countTagged(commits, schema.TagFeature)
	return schema.MetricCard{
		Key:   "feature_ratio",
		Title: "Feature Ratio",
		Value: Percent(n, len(commits)),
		Sub:   plural(n, "feature commit"),
	}
}

// workPatterns counts timed commits and their work-pattern flags.
func workPatterns(commits []schema.Commit, s field.Settings) (timed, afterHours, weekend, holiday int) {
	for _, c := range commits {
		wp, ok := field.WorkPattern(c, s)
		if !ok {
			continue
		}
		timed++
		if wp.IsAfterHours {
			afterHours++
		}
		if wp.IsWeekend {
			weekend++
		}
		if wp.IsHoliday {
			holiday++
		}
	}
	return timed, afterHours, weekend, holiday
}

// AfterHoursCard is the share of timed commits outside the work window.
func AfterHoursCard(commits []schema.Commit, s field.Settings) schema.MetricCard {
	timed, after, _, _ := workPatterns(commits, s)
	return schema.MetricCard{
		Key:   "after_hours",
		Title: "After Hours",
		Value: Percent(after, timed),
		Sub:   fmt.Sprintf("outside %02d:00-%02d:00", s.WorkHourStart, s.WorkHourEnd),
	}
}

// WeekendCard is the share of timed commits on Saturday or Sunday.
func WeekendCard(commits []schema.Commit, s field.Settings) schema.MetricCard {
	timed, _, weekend, _ := workPatterns(commits, s)
	return schema.MetricCard{
		Key:   "weekend",
		Title: "Weekend Work",
		Value: Percent(weekend, timed),
		Sub:   plural(weekend, "weekend commit"),
	}
}

// HolidayCard counts commits on calendar holidays.
func HolidayCard(commits []schema.Commit, s field.Settings) schema.MetricCard {
	timed, _, _, holiday := workPatterns(commits, s)
	sub := "no holiday calendar"
	if s.IsHoliday != nil {
		sub = Percent(holiday, timed) + " of timed commits"
	}
	return schema.MetricCard{
		Key:   "holidays",
		Title: "Holiday Commits",
		Value: humanize.Comma(int64(holiday)),
		Sub:   sub,
	}
}

// ReactiveShareCard is the share of rated commits with urgency 4 or 5.
func ReactiveShareCard(commits []schema.Commit, _ field.Settings) schema.MetricCard {
	u := Urgency(commits)
	return schema.MetricCard{
		Key:   "reactive_share",
		Title: "Reactive Work",
		Value: Percent(u.Reactive, u.Rated()),
		Sub:   "of " + plural(u.Rated(), "rated commit"),
	}
}

// DebtBalanceCard is debt added minus debt paid.
func DebtBalanceCard(commits []schema.Commit, _ field.Settings) schema.MetricCard {
	bd := DebtBreakdown(commits)
	added, paid := bd.Count(schema.DebtAdded), bd.Count(schema.DebtPaid)
	value := Placeholder
	if bd.Total > 0 {
		value = fmt.Sprintf("%+d", added-paid)
		if added == paid {
			value = "0"
		}
	}
	return schema.MetricCard{
		Key:   "debt_balance",
		Title: "Debt Balance",
		Value: value,
		Sub:   fmt.Sprintf("%d added, %d paid", added, paid),
	}
}

// SecurityCard counts commits tagged security.
func SecurityCard(commits []schema.Commit, _ field.Settings) schema.MetricCard {
	n := countTagged(commits, schema.TagSecurity)
	return schema.MetricCard{
		Key:   "security",
		Title: "Security Commits",
		Value: humanize.Comma(int64(n)),
		Sub:   Percent(n, len(commits)) + " of commits",
	}
}

// AvgComplexityCard averages complexity over rated commits.
func AvgComplexityCard(commits []schema.Commit, _ field.Settings) schema.MetricCard {
	sum, n := 0, 0
	for _, c := range commits {
		if v, ok := field.Complexity(c); ok {
			sum += v
			n++
		}
	}
	return schema.MetricCard{
		Key:   "avg_complexity",
		Title: "Avg Complexity",
		Value: Ratio(sum, n),
		Sub:   "of " + plural(n, "rated commit"),
	}
}

// TopTagCard names the most frequent tag.
func TopTagCard(commits []schema.Commit, _ field.Settings) schema.MetricCard {
	card := schema.MetricCard{Key: "top_tag", Title: "Top Tag", Value: Placeholder, Sub: "no tagged commits"}
	bd := TagDistribution(commits)
	if len(bd.Items) > 0 {
		card.Value = bd.Items[0].Label
		card.Sub = plural(bd.Items[0].Count, "commit")
	}
	return card
}

// BusiestWeekdayCard names the weekday with the most timed commits; ties go to the earlier day.
func BusiestWeekdayCard(commits []schema.Commit, s field.Settings) schema.MetricCard {
	card := schema.MetricCard{Key: "busiest_weekday", Title: "Busiest Day", Value: Placeholder, Sub: "no timed commits"}
	totals := DayOfWeekTotals(commits, s)
	best := -1
	for d, n := range totals {
		if n > 0 && (best < 0 || n > totals[best]) {
			best = d
		}
	}
	if best >= 0 {
		card.Value = time.Weekday(best).String()
		card.Sub = plural(totals[best], "commit")
	}
	return card
}

// FilesPerCommitCard averages files changed per commit.
func FilesPerCommitCard(commits []schema.Commit, _ field.Settings) schema.MetricCard {
	files := 0
	for _, c := range commits {
		files += field.FilesChanged(c)
	}
	return schema.MetricCard{
		Key:   "files_per_commit",
		Title: "Files per Commit",
		Value: Ratio(files, len(commits)),
		Sub:   plural(files, "file") + " touched",
	}
}
