package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/settld-dev/settld/internal/config"
	"github.com/settld-dev/settld/internal/diag"
	"github.com/settld-dev/settld/internal/engine"
	"github.com/settld-dev/settld/internal/report"
	"github.com/settld-dev/settld/internal/runlog"
	"github.com/settld-dev/settld/internal/txcsv"
)

func newProcessCommand() *cobra.Command {
	var opts processOptions

	cmd := &cobra.Command{
		Use:   "process <file.csv>",
		Short: "Process a transaction file and print the account summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().CountVarP(&opts.verbosity, "verbose", "v", "diagnostic output on stderr (repeat for more)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to settld.yaml")
	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "write the summary to a sqlite file")
	cmd.Flags().StringVar(&opts.runLog, "run-log", "", "append a run record to a CSV file")

	return cmd
}

type processOptions struct {
	verbosity  int
	configPath string
	snapshot   string
	runLog     string
}

func runProcess(out io.Writer, file string, opts processOptions) error {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logger, err := diag.New(opts.verbosity, cfg.Diagnostics.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	snapshot := opts.snapshot
	if snapshot == "" {
		snapshot = cfg.Report.Snapshot
	}
	runLogPath := opts.runLog
	if runLogPath == "" {
		runLogPath = cfg.Report.RunLog
	}

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("opening %s: %w", file, err)
	}
	defer f.Close()

	start := time.Now()
	eng := engine.New()
	counts, err := consume(eng, txcsv.NewReader(f), logger)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	accounts := eng.Accounts()
	if err := report.WriteAccounts(out, accounts); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	if snapshot != "" {
		if err := report.WriteSnapshot(snapshot, accounts); err != nil {
			return err
		}
	}

	if runLogPath != "" {
		entry := runlog.NewEntry(file, counts.applied, counts.rejected, counts.malformed, time.Since(start))
		if err := runlog.Append(runLogPath, entry); err != nil {
			return err
		}
	}

	logger.Info("run complete",
		zap.Int("applied", counts.applied),
		zap.Int("rejected", counts.rejected),
		zap.Int("malformed", counts.malformed),
		zap.Int("accounts", len(accounts)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

type outcomeCounts struct {
	applied   int
	rejected  int
	malformed int
}

// consume drains the record stream through the engine, logging one outcome
// per record. Per-record failures never abort the run; only an unreadable
// input does.
func consume(eng *engine.Engine, r *txcsv.Reader, logger *zap.Logger) (outcomeCounts, error) {
	var counts outcomeCounts

	for {
		tx, err := r.Next()
		if errors.Is(err, io.EOF) {
			return counts, nil
		}
		var rowErr *txcsv.RowError
		if errors.As(err, &rowErr) {
			counts.malformed++
			logger.Warn("record skipped",
				zap.String("outcome", engine.Malformed.String()),
				zap.Int("line", rowErr.Line),
				zap.Error(rowErr.Err),
			)
			continue
		}
		if err != nil {
			return counts, err
		}

		outcome := eng.Process(tx)
		if outcome.Accepted() {
			counts.applied++
			logger.Debug("record applied", zap.Stringer("record", tx))
			continue
		}

		counts.rejected++
		fields := []zap.Field{
			zap.Stringer("record", tx),
			zap.String("reason", outcome.String()),
		}
		if acct, ok := eng.Account(tx.TxRef().Client); ok {
			fields = append(fields,
				zap.String("available", acct.Available.StringFixed(4)),
				zap.String("held", acct.Held.StringFixed(4)),
			)
		}
		logger.Warn("record rejected", fields...)
	}
}
