package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/core/field"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// Layouts for commit timestamps in tables and exports.
const (
	commitTimeLayout = "2006-01-02 15:04"
	shortSHALength   = 8
)

// PrintDetail outputs one page of a detail selection.
func PrintDetail(page schema.DetailPage, cfg *contract.Config, s field.Settings, duration time.Duration) error {
	sanitizer := field.NewSanitizer(s.PrivacyMode)
	page.Commits = DisplayCommits(page.Commits, sanitizer)
	return printer(cfg,
		func(w io.Writer) error { return writeDetailTable(w, page, cfg, s, duration) },
		func(w io.Writer) error { return writeCommitsCSV(w, page.Commits, s) },
		func(w io.Writer) error { return writeJSON(w, page) },
	)
}

// PrintCommits outputs a flat commit list, e.g. the filtered export.
func PrintCommits(commits []schema.Commit, cfg *contract.Config, s field.Settings, duration time.Duration) error {
	sanitizer := field.NewSanitizer(s.PrivacyMode)
	commits = DisplayCommits(commits, sanitizer)
	return printer(cfg,
		func(w io.Writer) error {
			if err := writeCommitTable(w, commits, cfg, s); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "Exported %d commits\n", len(commits)); err != nil {
				return err
			}
			return writeFooter(w, cfg, duration)
		},
		func(w io.Writer) error { return writeCommitsCSV(w, commits, s) },
		func(w io.Writer) error { return writeJSON(w, commits) },
	)
}

// DisplayCommits copies commits with the author resolved for display.
// Under privacy mode the name is redacted and the email dropped.
func DisplayCommits(commits []schema.Commit, sanitizer *field.Sanitizer) []schema.Commit {
	out := make([]schema.Commit, len(commits))
	for i, c := range commits {
		email := field.AuthorEmail(c)
		name := sanitizer.Name(field.AuthorName(c), email)
		if sanitizer.Privacy() {
			email = ""
		}
		c.Author = schema.Author{Name: name, Email: email}
		c.AuthorName, c.AuthorEmail = "", ""
		c.Tags = field.Tags(c)
		c.Tag = ""
		out[i] = c
	}
	return out
}

// commitTime formats a commit timestamp in the display zone, or "-".
func commitTime(c schema.Commit, s field.Settings, layout string) string {
	t, ok := field.Time(c, s)
	if !ok {
		return "-"
	}
	return t.Format(layout)
}

func ratingString(r schema.Rating) string {
	if !r.Valid {
		return ""
	}
	return strconv.Itoa(r.Value)
}

func shortSHA(sha string) string {
	if len(sha) > shortSHALength {
		return sha[:shortSHALength]
	}
	return sha
}

func writeDetailTable(w io.Writer, page schema.DetailPage, cfg *contract.Config, s field.Settings, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "%s (%s)\n", page.Title, page.Subtitle); err != nil {
		return err
	}
	if page.FilterInfo != "" {
		if _, err := fmt.Fprintf(w, "Filter: %s\n", page.FilterInfo); err != nil {
			return err
		}
	}
	if err := writeCommitTable(w, page.Commits, cfg, s); err != nil {
		return err
	}

	shown := fmt.Sprintf("Showing %d-%d of %d", min(page.Offset+1, page.Total), page.Offset+len(page.Commits), page.Total)
	if page.HasMore {
		shown += fmt.Sprintf(" (next page: --offset %d)", page.Offset+len(page.Commits))
	}
	if _, err := fmt.Fprintln(w, shown); err != nil {
		return err
	}
	return writeFooter(w, cfg, duration)
}

func writeCommitTable(w io.Writer, commits []schema.Commit, cfg *contract.Config, s field.Settings) error {
	msgWidth := getMaxTableTextWidth(cfg, 75)
	table := newTable(w, "SHA", "When", "Author", "Repo", "Tags", "Urgency", "Message")
	rows := make([][]string, 0, len(commits))
	for _, c := range commits {
		urgency := ratingString(c.Urgency)
		if b, ok := field.UrgencyBucket(c); ok {
			urgency = fmt.Sprintf("%s %s", urgency, urgencyLabel(cfg, b))
		}
		rows = append(rows, []string{
			shortSHA(c.SHA),
			commitTime(c, s, commitTimeLayout),
			contract.TruncateText(c.Author.Name, 24),
			field.RepoID(c),
			strings.Join(c.Tags, ","),
			urgency,
			contract.TruncateText(firstLine(c.Message), msgWidth),
		})
	}
	return renderTable(table, rows)
}

func firstLine(msg string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(msg), "\n")
	return line
}

// commitCSVHeader is the column order of commit CSV exports.
var commitCSVHeader = []string{
	"sha", "timestamp", "author", "email", "repo", "tags", "urgency", "complexity",
	"impact", "risk", "debt", "semver", "epic", "additions", "deletions", "files_changed", "message",
}

func writeCommitsCSV(w io.Writer, commits []schema.Commit, s field.Settings) error {
	return writeCSVWithHeader(w, commitCSVHeader, func(cw *csv.Writer) error {
		for _, c := range commits {
			impact, _ := field.Impact(c)
			risk, _ := field.Risk(c)
			debt, _ := field.Debt(c)
			semver, _ := field.Semver(c)
			epic, _ := field.Epic(c)
			rec := []string{
				c.SHA,
				commitTime(c, s, time.RFC3339),
				c.Author.Name,
				c.Author.Email,
				field.RepoID(c),
				strings.Join(c.Tags, "|"),
				ratingString(c.Urgency),
				ratingString(c.Complexity),
				impact,
				risk,
				debt,
				semver,
				epic,
				strconv.Itoa(field.Additions(c)),
				strconv.Itoa(field.Deletions(c)),
				strconv.Itoa(field.FilesChanged(c)),
				firstLine(c.Message),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
