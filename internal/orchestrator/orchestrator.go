package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"sweeper/internal/config"
	"sweeper/internal/engine"
	"sweeper/internal/history"
	"sweeper/internal/lock"
	"sweeper/internal/logging"
	"sweeper/internal/notifications"
	"sweeper/internal/outcome"
	"sweeper/internal/runlog"
	"sweeper/internal/scanner"
	"sweeper/internal/stability"
)

// Orchestrator drives one finite ingestion pass: acquire the instance lock,
// enumerate candidates, and for each one gate on stability, invoke the
// engine, and act on the classified outcome. Files are processed strictly
// sequentially; the engine's side effects are not safe under concurrency.
type Orchestrator struct {
	cfg      *config.Config
	logger   *slog.Logger
	guard    *lock.Guard
	detector *stability.Detector
	invoker  *engine.Invoker
	table    outcome.Table
	store    *history.Store
	notifier notifications.Service
	now      func() time.Time
}

// Summary aggregates the result of one pass.
type Summary struct {
	AlreadyRunning bool
	Scanned        int
	Succeeded      int
	SoftSkipped    int
	Quarantined    int
	Deferred       int
	Errored        int
	Duration       time.Duration
}

// Option configures optional orchestrator collaborators.
type Option func(*Orchestrator)

// WithNotifier injects a custom notification service (used in tests).
func WithNotifier(n notifications.Service) Option {
	return func(o *Orchestrator) {
		if n != nil {
			o.notifier = n
		}
	}
}

// WithHistory injects an attempt-history store. Nil disables recording.
func WithHistory(store *history.Store) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithDetector overrides the stability detector (used in tests to skip the
// settle sleep).
func WithDetector(d *stability.Detector) Option {
	return func(o *Orchestrator) {
		if d != nil {
			o.detector = d
		}
	}
}

// WithClock overrides the wall clock used for run tokens.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// New constructs an orchestrator with initialized collaborators.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.New("orchestrator requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	invoker, err := engine.New(cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("build engine invoker: %w", err)
	}

	o := &Orchestrator{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "orchestrator"),
		guard:    lock.New(cfg.LockPath()),
		detector: stability.New(time.Duration(cfg.Stability.SettleSeconds) * time.Second),
		invoker:  invoker,
		table:    outcome.NewTable(cfg.Engine.SoftExitCodes),
		notifier: notifications.NewService(cfg),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Run performs one full pass. The returned error is reserved for
// unusable-installation conditions; per-file failures are absorbed into the
// summary so one bad file never stops its neighbors.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	start := o.now()
	var summary Summary

	ok, err := o.guard.Acquire()
	if err != nil {
		return summary, fmt.Errorf("instance lock: %w", err)
	}
	if !ok {
		// Not an error: a held lock means another pass owns the directory
		// tree, so this invocation performs zero work and exits cleanly.
		o.logger.Info("another pass is already running; nothing to do",
			logging.String("lock", o.guard.Path()))
		summary.AlreadyRunning = true
		return summary, nil
	}
	defer o.guard.Release()

	if err := o.cfg.EnsureDirectories(); err != nil {
		return summary, fmt.Errorf("prepare directories: %w", err)
	}

	sessionID := uuid.NewString()
	candidates, err := scanner.Scan(o.cfg.Paths.IncomingDir)
	if err != nil {
		return summary, err
	}
	summary.Scanned = len(candidates)
	o.logger.Info("pass started",
		logging.String("session", sessionID),
		logging.Int("candidates", len(candidates)))

	for _, cand := range candidates {
		if ctx.Err() != nil {
			o.logger.Warn("pass interrupted", logging.Error(ctx.Err()))
			break
		}
		o.processFile(ctx, sessionID, cand, &summary)
	}

	logging.CleanupOldLogs(o.logger, o.cfg.Logging.RetentionDays, logging.RetentionTarget{
		Dir:     o.cfg.Paths.LogDir,
		Pattern: "*.log",
		Exclude: []string{filepath.Join(o.cfg.Paths.LogDir, "sweeper.log")},
	})

	summary.Duration = o.now().Sub(start)
	o.logger.Info("pass finished",
		logging.String("session", sessionID),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("soft_skipped", summary.SoftSkipped),
		logging.Int("quarantined", summary.Quarantined),
		logging.Int("deferred", summary.Deferred),
		logging.Int("errored", summary.Errored),
		logging.Duration("duration", summary.Duration))

	if err := o.notifier.NotifyPassCompleted(ctx, summary.Succeeded+summary.SoftSkipped,
		summary.Quarantined, summary.Deferred, summary.Duration); err != nil {
		o.logger.Warn("pass notification failed", logging.Error(err))
	}

	return summary, nil
}

func (o *Orchestrator) processFile(ctx context.Context, sessionID string, cand scanner.Candidate, summary *Summary) {
	started := o.now()
	fileLogger := o.logger.With(logging.String(logging.FieldFile, cand.Name))

	run, err := runlog.Start(o.cfg.Paths.LogDir, cand.Name, started)
	if err != nil {
		// Cannot even open an audit log; leave the file for the next pass.
		fileLogger.Error("start run log", logging.Error(err))
		summary.Errored++
		return
	}
	fileLogger = fileLogger.With(logging.String(logging.FieldRunToken, run.Token))

	record := history.Attempt{
		SessionID: sessionID,
		RunToken:  run.Token,
		FileName:  cand.Name,
		LogPath:   run.LogPath,
		StartedAt: started,
	}

	stable, err := o.detector.IsStable(ctx, cand.Path)
	switch {
	case errors.Is(err, stability.ErrVanished):
		_ = run.Append("File vanished before processing; skipping")
		fileLogger.Info("candidate vanished before processing")
		record.Result = history.ResultVanished
		o.finishAttempt(ctx, fileLogger, record)
		summary.Deferred++
		return
	case err != nil && ctx.Err() != nil:
		_ = run.Append("Pass interrupted during stability check")
		return
	case err != nil:
		_ = run.Appendf("Stability check failed: %v", err)
		fileLogger.Error("stability check", logging.Error(err))
		record.Result = history.ResultError
		record.Detail = err.Error()
		o.finishAttempt(ctx, fileLogger, record)
		summary.Errored++
		return
	case !stable:
		_ = run.Append("File still changing; deferring to next pass")
		fileLogger.Info("candidate unstable; deferred",
			logging.Int64("size", cand.Size))
		record.Result = history.ResultUnstable
		o.finishAttempt(ctx, fileLogger, record)
		summary.Deferred++
		return
	}

	_ = run.Appendf("Processing %s", cand.Name)
	status, err := o.invoker.Invoke(ctx, cand.Path, run.Token, run.LogPath)
	switch {
	case errors.Is(err, engine.ErrTimeout):
		_ = run.Appendf("Engine timed out; treating as crashed: %v", err)
		fileLogger.Error("engine timeout", logging.Error(err))
		record.Detail = err.Error()
		o.quarantine(ctx, fileLogger, run, cand, outcome.Crash, &record, summary)
		o.finishAttempt(ctx, fileLogger, record)
		return
	case err != nil && ctx.Err() != nil:
		_ = run.Append("Pass interrupted during engine invocation")
		return
	case err != nil:
		// The engine never produced a status (unstartable interpreter or
		// script). The input is intact, so leave it for the next pass once
		// the installation is fixed.
		_ = run.Appendf("Engine could not be invoked: %v", err)
		fileLogger.Error("invoke engine", logging.Error(err))
		if notifyErr := o.notifier.NotifyError(ctx, err, cand.Name); notifyErr != nil {
			fileLogger.Warn("error notification failed", logging.Error(notifyErr))
		}
		record.Result = history.ResultError
		record.Detail = err.Error()
		o.finishAttempt(ctx, fileLogger, record)
		summary.Errored++
		return
	}

	out := o.table.Classify(status)
	record.ExitStatus = &status
	record.Result = out.String()
	fileLogger.Info("engine finished",
		logging.Int(logging.FieldExitCode, status),
		logging.String(logging.FieldOutcome, out.String()))

	switch out {
	case outcome.Success:
		_ = run.Appendf("Engine exited with status %d: success; file handled by engine", status)
		summary.Succeeded++
	case outcome.SoftSkip:
		_ = run.Appendf("Engine exited with status %d: deliberate skip; file handled by engine", status)
		summary.SoftSkipped++
	case outcome.Crash:
		_ = run.Appendf("Engine crashed before internal cleanup (status %d)", status)
		o.quarantine(ctx, fileLogger, run, cand, out, &record, summary)
	case outcome.CrashUnknown:
		_ = run.Appendf("Engine exited with unrecognized status %d; treating as crashed", status)
		o.quarantine(ctx, fileLogger, run, cand, out, &record, summary)
	}

	o.finishAttempt(ctx, fileLogger, record)
}

func (o *Orchestrator) quarantine(ctx context.Context, fileLogger *slog.Logger, run runlog.Run, cand scanner.Candidate, out outcome.Outcome, record *history.Attempt, summary *Summary) {
	record.Result = out.String()

	moved, dest, err := outcome.Quarantine(cand.Path, cand.Name, run.Token, o.cfg.Paths.QuarantineDir)
	if err != nil {
		_ = run.Appendf("Quarantine failed: %v", err)
		fileLogger.Error("quarantine", logging.Error(err))
		record.Detail = err.Error()
		summary.Errored++
		return
	}
	if !moved {
		_ = run.Append("Original already gone; nothing to quarantine")
		fileLogger.Info("original missing at quarantine time; skipped")
		summary.Quarantined++
		return
	}

	_ = run.Appendf("Moved original to %s", dest)
	fileLogger.Warn("file quarantined", logging.String("destination", dest))
	record.QuarantinePath = dest
	summary.Quarantined++

	if err := o.notifier.NotifyQuarantine(ctx, cand.Name, run.Token, out.String()); err != nil {
		fileLogger.Warn("quarantine notification failed", logging.Error(err))
	}
}

func (o *Orchestrator) finishAttempt(ctx context.Context, fileLogger *slog.Logger, record history.Attempt) {
	record.FinishedAt = o.now()
	if o.store == nil {
		return
	}
	if _, err := o.store.Record(ctx, record); err != nil {
		fileLogger.Warn("record attempt history", logging.Error(err))
	}
}
