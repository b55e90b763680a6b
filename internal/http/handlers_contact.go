package http

import (
	"context"
	"errors"
	"net/http"

	"tracker/internal/contact"
	"tracker/internal/editor"
	"tracker/internal/log"
)

func (s *Server) handleContactPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "contact_page", contactView{})
}

// handleContactSubmit waits out the simulated delivery. A client that goes
// away cancels the wait through the request context.
func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx).WithComponent(log.ComponentContact)

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("Malformed request").Write(w)
		return
	}
	msg := contact.Message{
		Name:    parser.Get("name"),
		Email:   parser.Get("email"),
		Message: parser.Get("message"),
	}

	receipt, err := s.contact.Submit(ctx, msg)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.InfoContext(ctx, "Contact request cancelled", log.FieldError, err)
		return
	case err != nil:
		notice := editor.Notice{Title: "Missing fields", Message: "Please fill in all fields", Variant: editor.VariantDestructive}
		if errors.Is(err, contact.ErrInvalidEmail) {
			notice = editor.Notice{Title: "Invalid email", Message: "Please enter a valid email address", Variant: editor.VariantDestructive}
		}
		if wantsJSON(r, parser) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error(), "notice": notice})
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		NewHTMXResponse().Status(http.StatusUnprocessableEntity).TriggerNotification(notice).Write(w)
		s.executePartial(w, r, "contact_form", contactView{Name: msg.Name, Email: msg.Email, Message: msg.Message})
		return
	}

	if wantsJSON(r, parser) {
		writeJSON(w, http.StatusOK, receipt)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	NewHTMXResponse().
		TriggerNotification(editor.Notice{Title: receipt.Title, Message: receipt.Description, Variant: editor.VariantDefault}).
		TriggerFormReset().
		Write(w)
	s.executePartial(w, r, "contact_form", contactView{})
}

// executePartial renders into a response whose header was already written.
func (s *Server) executePartial(w http.ResponseWriter, r *http.Request, name string, data any) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed", "template", name, log.FieldError, err)
	}
}
