package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	jobs "github.com/jdziat/simple-sequential-jobs"
	"github.com/jdziat/simple-sequential-jobs/pkg/history"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "seqjobs",
		Short: "Run shell commands one at a time, in order",
		Long: `seqjobs runs shell commands sequentially through a job queue.

Each command becomes one job. Jobs run strictly in order, never overlap and
can be spaced apart with --delay. Every queue event can be written to a
SQLite or PostgreSQL history database and inspected later.

Defaults come from SEQJOBS_* environment variables (or a .env file).

Examples:
  seqjobs run "make build" "make test"
  seqjobs run -f jobs.yaml --history history.db
  seqjobs history --db history.db --queue Queue`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newHistoryCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var (
		file     string
		id       string
		delay    time.Duration
		dsn      string
		logLevel string
		shell    string
		failFast bool
	)

	cmd := &cobra.Command{
		Use:   "run [command...]",
		Short: "Run commands from arguments or a job file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("id") {
				cfg.ID = id
			}
			if flags.Changed("delay") {
				cfg.Delay = delay
			}
			if flags.Changed("history") {
				cfg.History = dsn
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("shell") {
				cfg.Shell = shell
			}
			if flags.Changed("fail-fast") {
				cfg.FailFast = failFast
			}

			specs := commandsFromArgs(args)
			if file != "" {
				jf, err := loadJobFile(file)
				if err != nil {
					return err
				}
				specs = append(jf.Jobs, specs...)
				if jf.ID != "" && !flags.Changed("id") {
					cfg.ID = jf.ID
				}
				if jf.Delay > 0 && !flags.Changed("delay") {
					cfg.Delay = jf.Delay
				}
			}

			return runCommands(cmd.Context(), cfg, specs, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&file, "file", "f", "", "YAML job file")
	f.StringVar(&id, "id", "Queue", "queue identifier")
	f.DurationVar(&delay, "delay", 0, "minimum gap between the end of one job and the start of the next")
	f.StringVar(&dsn, "history", "", "record events to this SQLite path or PostgreSQL DSN")
	f.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	f.StringVar(&shell, "shell", "/bin/sh", "shell used to run each command")
	f.BoolVar(&failFast, "fail-fast", false, "skip remaining jobs after the first failure")
	return cmd
}

func runCommands(ctx context.Context, cfg Config, specs []CommandSpec, stdout, stderr io.Writer) error {
	logger, err := newLogger(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	r := &runner{
		shell:    cfg.Shell,
		failFast: cfg.FailFast,
		logger:   logger,
		stdout:   stdout,
		stderr:   stderr,
	}

	if cfg.History != "" {
		rec, closeDB, err := openRecorder(ctx, cfg.History)
		if err != nil {
			return err
		}
		defer closeDB()
		r.recorder = rec
	}

	s, err := r.run(ctx, cfg.ID, cfg.Delay, specs)
	if err != nil {
		return err
	}

	logger.Info("run complete",
		"done", s.Done,
		"failed", len(s.Failed),
		"skipped", s.Stopped,
		"duration", s.Duration.Round(time.Millisecond))
	return s.err()
}

func openRecorder(ctx context.Context, dsn string) (*history.Recorder, func(), error) {
	db, err := history.Open(dsn)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	rec := history.NewRecorder(db)
	if err := rec.Migrate(ctx); err != nil {
		closeDB()
		return nil, nil, err
	}
	return rec, closeDB, nil
}

func newHistoryCmd() *cobra.Command {
	var (
		dsn     string
		queueID string
		limit   int
		prune   time.Duration
		byType  bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded queue events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dsn == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				dsn = cfg.History
			}
			if dsn == "" {
				return fmt.Errorf("no history database: pass --db or set SEQJOBS_HISTORY")
			}

			ctx := cmd.Context()
			rec, closeDB, err := openRecorder(ctx, dsn)
			if err != nil {
				return err
			}
			defer closeDB()

			out := cmd.OutOrStdout()
			if prune > 0 {
				n, err := rec.Prune(ctx, prune)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "pruned %d events\n", n)
			}
			if byType {
				return printCounts(ctx, out, rec, queueID)
			}
			return printEvents(ctx, out, rec, queueID, limit)
		},
	}

	f := cmd.Flags()
	f.StringVar(&dsn, "db", "", "SQLite path or PostgreSQL DSN")
	f.StringVar(&queueID, "queue", "Queue", "queue identifier")
	f.IntVar(&limit, "limit", 100, "maximum events to show (0 for all)")
	f.DurationVar(&prune, "prune", 0, "delete events older than this before listing")
	f.BoolVar(&byType, "summary", false, "show event counts by type")
	return cmd
}

func printEvents(ctx context.Context, out io.Writer, rec *history.Recorder, queueID string, limit int) error {
	records, err := rec.List(ctx, queueID, limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tEVENT\tJOB\tDETAIL")
	for _, r := range records {
		detail := r.Message
		switch {
		case r.Error != "":
			detail = r.Error
		case r.Result != "":
			detail = r.Result
		case r.Count > 0:
			detail = fmt.Sprintf("count=%d", r.Count)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.CreatedAt.Format(time.RFC3339), r.Type, r.JobName, detail)
	}
	return tw.Flush()
}

func printCounts(ctx context.Context, out io.Writer, rec *history.Recorder, queueID string) error {
	counts, err := rec.CountByType(ctx, queueID)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EVENT\tCOUNT")
	for _, t := range jobs.EventTypes {
		if n := counts[t]; n > 0 {
			fmt.Fprintf(tw, "%s\t%d\n", t, n)
		}
	}
	return tw.Flush()
}
