package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cesargomez89/reelbox/internal/constants"
	"github.com/cesargomez89/reelbox/internal/domain"
	"github.com/cesargomez89/reelbox/internal/progress"
	"github.com/cesargomez89/reelbox/internal/scanner"
	"github.com/cesargomez89/reelbox/internal/thumbs"
)

var (
	cleanupDays   int
	cleanupVacuum bool
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove resume points not updated for a number of days",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		days := cleanupDays
		if days <= 0 {
			days = e.cfg.AutoCleanupDays
		}
		n, err := e.db.CleanupOldResume(days)
		if err != nil {
			return err
		}
		if err := e.db.Optimize(); err != nil {
			e.log.Warn("Optimize failed", "error", err)
		}
		if cleanupVacuum {
			if err := e.db.Vacuum(); err != nil {
				return fmt.Errorf("vacuum: %w", err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d resume points older than %d days\n", n, days)
		return nil
	},
}

var thumbsCmd = &cobra.Command{
	Use:   "thumbs <dir>",
	Short: "Generate thumbnails for every video in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		res := scanner.New(scanner.Config{
			Dir:        args[0],
			Extensions: e.cfg.MediaExtensions,
			Logger:     e.log,
		}).Scan(cmd.Context())
		if res.Err != nil {
			return res.Err
		}

		var videos []string
		for _, r := range res.Rows {
			if r.Kind == domain.KindFile {
				videos = append(videos, r.Path)
			}
		}

		mgr := thumbs.New(thumbs.Config{
			CacheDir:   e.cfg.ThumbCacheDir,
			Width:      e.cfg.ThumbWidth,
			Height:     e.cfg.ThumbHeight,
			Timeout:    e.cfg.ThumbTimeout,
			FFmpegPath: e.cfg.FFmpegPath,
		}, e.log)

		out := cmd.OutOrStdout()
		generated := mgr.BatchGenerate(cmd.Context(), videos, func(done, total, _ int) {
			pct := float64(done) / float64(total) * 100
			fmt.Fprintf(out, "\r%s %d/%d", progress.Render(pct, 20), done, total)
		})
		if len(videos) > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "Generated %d of %d thumbnails, cache now %d files (%s)\n",
			generated, len(videos), mgr.CacheCount(), humanize.IBytes(uint64(mgr.CacheSize())))
		return nil
	},
}

var (
	statsProfile string
	statsDays    int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print viewing statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		profile := statsProfile
		if profile == "" {
			profile = e.cfg.CurrentProfile
		}
		summary, err := e.db.Stats(profile, statsDays)
		if err != nil {
			return err
		}
		top, err := e.db.MostWatched(profile, constants.DefaultMostWatched)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Profile %s, last %d days\n", profile, statsDays)
		fmt.Fprintf(out, "  files watched: %d\n", summary.TotalFiles)
		fmt.Fprintf(out, "  time watched:  %s (%.1f h)\n",
			progress.FormatTime(time.Duration(summary.TotalMinutes)*time.Minute), summary.TotalHours)
		fmt.Fprintf(out, "  store size:    %s\n", humanize.IBytes(uint64(e.db.Size())))
		if len(top) > 0 {
			fmt.Fprintln(out, "Most watched:")
			for _, m := range top {
				fmt.Fprintf(out, "  %3dx  %-8s %s\n", m.WatchCount,
					progress.FormatTime(time.Duration(m.TotalTime)*time.Second), m.Path)
			}
		}
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup <dst>",
	Short: "Write a consistent copy of the store to dst",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.db.Backup(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backed up %s to %s\n", e.db.Path(), args[0])
		return nil
	},
}

func init() {
	cleanupCmd.Flags().IntVar(&cleanupDays, "days", 0, "age in days (default: auto_cleanup_days)")
	cleanupCmd.Flags().BoolVar(&cleanupVacuum, "vacuum", false, "rebuild the database file afterwards")
	statsCmd.Flags().StringVar(&statsProfile, "profile", "", "profile name (default: current_profile)")
	statsCmd.Flags().IntVar(&statsDays, "days", constants.DefaultStatsDays, "window in days")
}
