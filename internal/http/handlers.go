package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tracker/internal/editor"
	"tracker/internal/log"
	"tracker/internal/report"
	"tracker/internal/session"
)

// summaryResult is the aggregation of one store snapshot.
type summaryResult struct {
	Version uint64
	Count   int
	Summary report.Summary
}

// summarize aggregates the session store, optionally scoped to month.
// Concurrent calls for the same session, store generation and month share
// one snapshot. The shared read outlives any single caller's cancellation.
func (s *Server) summarize(ctx context.Context, sess *session.Session, month MonthParam) (summaryResult, error) {
	key := fmt.Sprintf("%s|%d|%s", sess.ID, sess.Store.Generation(), month)
	shareCtx := context.WithoutCancel(ctx)
	v, err, shared := s.summaries.Do(key, func() (any, error) {
		snap, err := sess.Store.Snapshot(shareCtx)
		if err != nil {
			return nil, fmt.Errorf("snapshot session %s: %w", sess.ID, err)
		}
		txs := snap.Transactions
		if !month.IsZero() {
			txs = report.InMonth(txs, month.Year, month.Month)
		}
		return summaryResult{
			Version: snap.Version,
			Count:   len(txs),
			Summary: report.Aggregate(txs),
		}, nil
	})
	if err != nil {
		return summaryResult{}, err
	}
	if shared {
		log.FromContext(ctx).DebugContext(ctx, "Summary shared with concurrent request", "key", key)
	}
	return v.(summaryResult), nil
}

func (s *Server) monthParam(r *http.Request) MonthParam {
	m, ok := ParseMonthParam(r.URL.Query())
	if !ok {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Invalid month parameter ignored",
			"month", r.URL.Query().Get("month"))
	}
	return m
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    s.now().Sub(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	if !s.ready.Load() {
		status = "shutting_down"
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks": map[string]any{
			"sessions":      s.sessions.Active(),
			"chart_cache":   s.charts.Size(),
			"rate_limiter":  s.limiter.ActiveClients(),
			"rate_rejected": s.limiter.Rejected(),
			"requests":      s.trace.TotalRequests(),
		},
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	month := s.monthParam(r)
	s.render(w, r, http.StatusOK, "dashboard_page", dashboardView{
		Title: report.PeriodTitle(s.now()),
		Month: month.String(),
		Form:  newFormView(editor.DefaultForm(s.now())),
	})
}

func (s *Server) handleSummaryPartial(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	month := s.monthParam(r)
	res, err := s.summarize(r.Context(), sess, month)
	if err != nil {
		s.storeFailure(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "summary", newSummaryView(res, month, s.now()))
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	month := s.monthParam(r)
	res, err := s.summarize(r.Context(), sess, month)
	if err != nil {
		s.storeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"version": res.Version,
		"month":   month.String(),
		"count":   res.Count,
		"income":  res.Summary.Income,
		"expense": res.Summary.Expense,
		"totals":  res.Summary.Totals,
		"charts": map[string]report.ChartData{
			"expense": report.ExpenseChart(res.Summary),
			"income":  report.IncomeChart(res.Summary),
		},
	})
}

// storeFailure answers a failed store read. A cancelled request gets no
// body since nobody is listening.
func (s *Server) storeFailure(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	log.FromContext(r.Context()).ErrorContext(r.Context(), "Store read failed", log.FieldError, err)
	if wantsJSON(r, nil) || strings.HasPrefix(r.URL.Path, "/api/") {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
		return
	}
	InternalServerError("Could not load transactions").Write(w)
}
