package core

import (
	"fmt"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/outwriter"
	"github.com/huangsam/gitpulse/internal/parquet"
	"github.com/huangsam/gitpulse/internal/report"
	"github.com/huangsam/gitpulse/schema"
)

// ExecutorFunc defines the function signature for commands that render a session.
type ExecutorFunc func(cfg *contract.Config, sess *Session) error

// OpenSession resumes persisted state, applies explicit config on top and
// loads the configured dataset files.
func OpenSession(cfg *contract.Config, store contract.StateStore) (*Session, error) {
	st := LoadState(store)

	sess := NewSession(cfg.Overlay(st.Settings()))
	level := st.Level
	if cfg.Level != "" {
		level = cfg.Level
	}
	sess.SetLevel(string(level))

	if err := sess.SetFilter(cfg.Filter.Apply(st.Filter)); err != nil {
		return nil, err
	}
	if len(cfg.DataFiles) > 0 {
		if err := sess.Load(cfg.DataFiles...); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// ExecuteDashboard builds the dashboard for the current level and prints it.
// HTML output renders the chart report instead of tables.
func ExecuteDashboard(cfg *contract.Config, sess *Session) error {
	start := time.Now()
	d, err := sess.Dashboard()
	if err != nil {
		return err
	}
	if cfg.Output == schema.HTMLOut {
		return report.WriteDashboardFile(d, cfg.OutputFile)
	}
	return outwriter.PrintDashboard(d, cfg, time.Since(start))
}

// ExecuteTimeline prints the activity timeline for the current level.
func ExecuteTimeline(cfg *contract.Config, sess *Session) error {
	start := time.Now()
	d, err := sess.Dashboard()
	if err != nil {
		return err
	}
	return outwriter.PrintTimeline(d, cfg, time.Since(start))
}

// ExecuteHeatmap prints the activity grid for the current level.
func ExecuteHeatmap(cfg *contract.Config, sess *Session) error {
	start := time.Now()
	d, err := sess.Dashboard()
	if err != nil {
		return err
	}
	return outwriter.PrintHeatmap(d, cfg, time.Since(start))
}

// ExecuteDetail prints one page of the commits behind sel.
func ExecuteDetail(cfg *contract.Config, sess *Session, sel schema.Selector) error {
	start := time.Now()
	page, err := sess.Detail(sel, cfg.Offset, cfg.Limit)
	if err != nil {
		return err
	}
	return outwriter.PrintDetail(page, cfg, sess.Settings(), time.Since(start))
}

// ExecuteExport writes the filtered commits. Parquet output also writes the
// timeline next to the commit file.
func ExecuteExport(cfg *contract.Config, sess *Session) error {
	start := time.Now()
	commits, err := sess.Filtered()
	if err != nil {
		return err
	}
	if cfg.Output != schema.ParquetOut {
		return outwriter.PrintCommits(commits, cfg, sess.Settings(), time.Since(start))
	}

	if cfg.OutputFile == "" {
		return fmt.Errorf("parquet export requires --output-file")
	}
	s := sess.Settings()
	if err := parquet.WriteCommitsParquet(parquet.CommitRows(commits, s), cfg.OutputFile); err != nil {
		return err
	}
	timelinePath := parquet.TimelinePath(cfg.OutputFile)
	if err := parquet.WriteTimelineParquet(parquet.TimelineRows(commits, sess.View(), s), timelinePath); err != nil {
		return err
	}
	contract.Logger().WithField("file", cfg.OutputFile).WithField("timeline", timelinePath).
		WithField("commits", len(commits)).Info("wrote parquet export")
	return nil
}
