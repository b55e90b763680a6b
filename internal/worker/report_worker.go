// Package worker turns transaction events into rendered report files.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"tracker/internal/amqp"
	"tracker/internal/core"
	"tracker/internal/report"
)

// ErrInvalidSession is returned for events whose session id is not a UUID.
var ErrInvalidSession = errors.New("invalid session id")

type replica struct {
	version      uint64
	transactions []core.Transaction
}

// ReportWorker keeps a replica of every session store it hears about and
// writes expense.svg, income.svg and summary.json under
// <outputDir>/<session>/ after each change.
type ReportWorker struct {
	mu        sync.Mutex
	replicas  map[string]*replica
	outputDir string
	logger    *slog.Logger
	now       func() time.Time
}

func NewReportWorker(outputDir string, logger *slog.Logger) *ReportWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWorker{
		replicas:  make(map[string]*replica),
		outputDir: outputDir,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleTransactionEvent applies ev to the session replica and refreshes
// its reports. It matches the amqp consumer handler signature.
func (w *ReportWorker) HandleTransactionEvent(ctx context.Context, ev *amqp.TransactionEvent) error {
	if _, err := uuid.Parse(ev.SessionID); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidSession, ev.SessionID)
	}

	w.mu.Lock()
	snapshot, changed := w.apply(ctx, ev)
	w.mu.Unlock()

	if !changed {
		return nil
	}
	if err := w.writeReports(ev.SessionID, snapshot); err != nil {
		return fmt.Errorf("write reports for %s: %w", ev.SessionID, err)
	}
	w.logger.InfoContext(ctx, "Reports refreshed",
		"session_id", ev.SessionID,
		"version", snapshot.version,
		"transactions", len(snapshot.transactions))
	return nil
}

// apply mutates the replica under w.mu and returns a copy to render.
func (w *ReportWorker) apply(ctx context.Context, ev *amqp.TransactionEvent) (replica, bool) {
	current, known := w.replicas[ev.SessionID]

	switch ev.Kind {
	case amqp.EventReplaced:
		if known && ev.Version != 0 && ev.Version < current.version {
			w.logger.DebugContext(ctx, "Stale replace ignored", "session_id", ev.SessionID, "version", ev.Version, "have", current.version)
			return replica{}, false
		}
		current = &replica{
			version:      ev.Version,
			transactions: append([]core.Transaction(nil), ev.Transactions...),
		}
		w.replicas[ev.SessionID] = current

	case amqp.EventPrepended:
		if !known {
			w.logger.WarnContext(ctx, "Prepend for unknown session, waiting for a full replace", "session_id", ev.SessionID, "version", ev.Version)
			return replica{}, false
		}
		if ev.Transaction == nil {
			w.logger.WarnContext(ctx, "Prepend event without transaction", "session_id", ev.SessionID)
			return replica{}, false
		}
		if ev.Version <= current.version {
			w.logger.DebugContext(ctx, "Duplicate prepend ignored", "session_id", ev.SessionID, "version", ev.Version)
			return replica{}, false
		}
		if ev.Version != current.version+1 {
			w.logger.WarnContext(ctx, "Version gap in event stream, replica may be incomplete",
				"session_id", ev.SessionID,
				"expected", current.version+1,
				"got", ev.Version)
		}
		txs := make([]core.Transaction, 0, len(current.transactions)+1)
		txs = append(txs, *ev.Transaction)
		current.transactions = append(txs, current.transactions...)
		current.version = ev.Version

	case amqp.EventClosed:
		delete(w.replicas, ev.SessionID)
		w.logger.DebugContext(ctx, "Session replica dropped", "session_id", ev.SessionID)
		return replica{}, false

	default:
		w.logger.WarnContext(ctx, "Unknown event kind", "kind", ev.Kind, "session_id", ev.SessionID)
		return replica{}, false
	}

	return replica{
		version:      current.version,
		transactions: append([]core.Transaction(nil), current.transactions...),
	}, true
}

type summaryFile struct {
	SessionID   string               `json:"session_id"`
	Version     uint64               `json:"version"`
	GeneratedAt time.Time            `json:"generated_at"`
	Count       int                  `json:"count"`
	Income      []core.CategoryTotal `json:"income"`
	Expense     []core.CategoryTotal `json:"expense"`
	Totals      core.MonthlyTotal    `json:"totals"`
	Formatted   map[string]string    `json:"formatted"`
}

func (w *ReportWorker) writeReports(sessionID string, r replica) error {
	dir := filepath.Join(w.outputDir, sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	summary := report.Aggregate(r.transactions)

	for _, kind := range []core.TransactionType{core.Expense, core.Income} {
		name := filepath.Join(dir, string(kind)+".svg")
		var buf bytes.Buffer
		err := report.RenderSVG(report.ChartFor(summary, kind), &buf)
		if errors.Is(err, report.ErrNothingToRender) {
			if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("remove stale chart: %w", err)
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("render %s chart: %w", kind, err)
		}
		if err := writeFileAtomic(name, buf.Bytes()); err != nil {
			return err
		}
	}

	body, err := json.MarshalIndent(summaryFile{
		SessionID:   sessionID,
		Version:     r.version,
		GeneratedAt: w.now().UTC(),
		Count:       len(r.transactions),
		Income:      summary.Income,
		Expense:     summary.Expense,
		Totals:      summary.Totals,
		Formatted: map[string]string{
			"income":  report.FormatCurrency(summary.Totals.Income),
			"expense": report.FormatCurrency(summary.Totals.Expense),
			"balance": report.FormatCurrency(summary.Totals.Balance),
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return writeFileAtomic(filepath.Join(dir, "summary.json"), body)
}

// writeFileAtomic replaces name so readers never see a partial file.
func writeFileAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(name), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(name), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(name), err)
	}
	if err := os.Rename(tmp.Name(), name); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(name), err)
	}
	return nil
}

// Replica returns the replicated transactions of a session.
func (w *ReportWorker) Replica(sessionID string) (version uint64, txs []core.Transaction, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	r, ok := w.replicas[sessionID]
	if !ok {
		return 0, nil, false
	}
	return r.version, append([]core.Transaction(nil), r.transactions...), true
}

// Sessions returns the number of replicated sessions.
func (w *ReportWorker) Sessions() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.replicas)
}
