package http

import (
	"errors"
	"net/http"

	"tracker/internal/browser"
	"tracker/internal/core"
	"tracker/internal/editor"
	"tracker/internal/log"
	"tracker/internal/session"
)

func criteriaFrom(r *http.Request) browser.Criteria {
	q := r.URL.Query()
	return browser.Criteria{
		SearchTerm: sanitizeInput(q.Get("q")),
		Category:   sanitizeInput(q.Get("category")),
		Type:       q.Get("type"),
	}
}

func (s *Server) handleTransactionsPartial(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	snap, err := sess.Store.Snapshot(r.Context())
	if err != nil {
		s.storeFailure(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "transactions", newTransactionsView(browser.Browse(snap.Transactions, criteriaFrom(r))))
}

func (s *Server) handleAPITransactions(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	snap, err := sess.Store.Snapshot(r.Context())
	if err != nil {
		s.storeFailure(w, r, err)
		return
	}
	res := browser.Browse(snap.Transactions, criteriaFrom(r))
	writeJSON(w, http.StatusOK, map[string]any{
		"version":      snap.Version,
		"criteria":     res.Criteria,
		"transactions": res.Transactions,
		"total":        res.Total,
	})
}

// handleFormPartial renders an editor form. Switching ?type= swaps the
// category list while keeping the rest of the input.
func (s *Server) handleFormPartial(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	q := r.URL.Query()
	f := editor.DefaultForm(s.now())
	if t := q.Get("type"); t != "" {
		f.Type = t
	}
	for key, dst := range map[string]*string{
		"amount":      &f.Amount,
		"description": &f.Description,
		"date":        &f.Date,
	} {
		if v := q.Get(key); v != "" {
			*dst = sanitizeInput(v)
		}
	}
	s.render(w, r, http.StatusOK, "form", newFormView(f))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		logger.WarnContext(ctx, "Malformed transaction request", log.FieldError, err)
		if wantsJSON(r, parser) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
			return
		}
		BadRequestError("Malformed request").Write(w)
		return
	}

	form := editor.Form{
		Type:        parser.Get("type"),
		Amount:      parser.Get("amount"),
		Description: parser.Get("description"),
		Category:    parser.Get("category"),
		Date:        parser.Get("date"),
	}

	ed := editor.New(sess.Store,
		editor.WithClock(s.now),
		editor.WithStrictCategories(s.strict))
	res, err := ed.Submit(ctx, form)

	status := http.StatusOK
	var verr *editor.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
		logger.InfoContext(ctx, "Transaction rejected", "field", verr.Field, log.FieldError, verr.Err)
	case err != nil:
		status = http.StatusInternalServerError
		logger.ErrorContext(ctx, "Transaction save failed", log.FieldError, err)
	default:
		fields := log.NewFields().
			WithOperation(log.OpCreate).
			WithTransaction(res.Transaction.ID, string(res.Transaction.Type), res.Transaction.Category, res.Transaction.Amount.String())
		logger.InfoContext(ctx, "Transaction added", fields.ToSlice()...)
	}

	if wantsJSON(r, parser) {
		body := map[string]any{"notice": res.Notice}
		if err == nil {
			status = http.StatusCreated
			body["transaction"] = res.Transaction
		} else if verr != nil {
			body["field"] = verr.Field
			body["error"] = verr.Err.Error()
		}
		writeJSON(w, status, body)
		return
	}

	b := NewHTMXResponse().Status(status).TriggerNotification(res.Notice)
	if err == nil {
		b.TriggerTransactionAdded(res.Transaction.ID, res.Transaction.Type).TriggerFormReset()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	b.Write(w)
	s.executePartial(w, r, "form", newFormView(res.Next))
}

// handleReset replaces the session store with the sample transactions.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	ctx := r.Context()
	version, err := sess.Store.Replace(ctx, core.SeedTransactions())
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Ledger reset failed", log.FieldError, err)
		InternalServerError("Could not reset transactions").Write(w)
		return
	}
	log.FromContext(ctx).InfoContext(ctx, "Ledger reset", log.FieldOperation, log.OpReplace, log.FieldVersion, version)

	if wantsJSON(r, nil) {
		writeJSON(w, http.StatusOK, map[string]any{"version": version})
		return
	}
	NewHTMXResponse().
		TriggerLedgerReset(version).
		TriggerNotification(editor.Notice{
			Title:   "Data reset",
			Message: "Sample transactions restored",
			Variant: editor.VariantDefault,
		}).
		Write(w)
}
