// pkg/server/response.go

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/quotation-billing/pkg/catalog"
	"github.com/quotation-billing/pkg/invoice"
	"github.com/quotation-billing/pkg/render"
	"github.com/quotation-billing/pkg/session"
	"go.uber.org/zap"
)

// Message is the error body of every failed request.
type Message struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("writing JSON to response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg Message) {
	msg.Type = "error"
	s.writeJSON(w, status, msg)
}

// fail maps domain errors onto HTTP statuses.
func (s *Server) fail(w http.ResponseWriter, err error) {
	var (
		verr  *invoice.ValidationError
		nerr  *invoice.NotFoundError
		fault *render.RenderFault
	)
	switch {
	case errors.As(err, &verr):
		s.writeError(w, http.StatusBadRequest, Message{Message: verr.Error(), Field: verr.Field})
	case errors.Is(err, catalog.ErrUnknownProduct):
		s.writeError(w, http.StatusBadRequest, Message{Message: err.Error(), Field: "product"})
	case errors.As(err, &nerr):
		s.writeError(w, http.StatusNotFound, Message{Message: nerr.Error()})
	case errors.Is(err, session.ErrNotFound):
		s.writeError(w, http.StatusNotFound, Message{Message: err.Error()})
	case errors.As(err, &fault):
		s.writeError(w, http.StatusInternalServerError, Message{Message: fmt.Sprintf("failed to generate PDF: %v", fault.Err)})
	default:
		s.logger.Error("request failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, Message{Message: "internal server error"})
	}
}

func (s *Server) writePDF(w http.ResponseWriter, filename string, doc []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		s.logger.Error("writing PDF to response", zap.Error(err))
	}
}
