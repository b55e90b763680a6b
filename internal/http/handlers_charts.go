package http

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"tracker/internal/core"
	"tracker/internal/log"
	"tracker/internal/report"
	"tracker/internal/session"
)

var chartKinds = map[string]core.TransactionType{
	"expense.svg": core.Expense,
	"income.svg":  core.Income,
}

// handleChart serves /charts/{expense|income}.svg for the session store.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	kind, ok := chartKinds[r.PathValue("name")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()
	month := s.monthParam(r)

	res, err := s.summarize(ctx, sess, month)
	if err != nil {
		s.storeFailure(w, r, err)
		return
	}

	key := sess.ID + "|" + strconv.FormatUint(res.Version, 10) + "|" + string(kind) + "|" + month.String()
	svg, hit := s.charts.Get(key)
	if !hit {
		var buf bytes.Buffer
		data := report.ChartFor(res.Summary, kind)
		if err := report.RenderSVG(data, &buf); err != nil {
			if errors.Is(err, report.ErrNothingToRender) {
				http.Error(w, data.EmptyText, http.StatusNotFound)
				return
			}
			log.FromContext(ctx).ErrorContext(ctx, "Chart render failed", log.FieldOperation, log.OpRender, log.FieldError, err)
			http.Error(w, "chart unavailable", http.StatusInternalServerError)
			return
		}
		svg = buf.Bytes()
		s.charts.Set(key, svg)
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "private, max-age=300")
	_, _ = w.Write(svg)
}
