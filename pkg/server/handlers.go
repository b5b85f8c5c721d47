// pkg/server/handlers.go

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/quotation-billing/pkg/invoice"
	"github.com/quotation-billing/pkg/ledger"
	"github.com/quotation-billing/pkg/register"
	"github.com/quotation-billing/pkg/render"
	"github.com/quotation-billing/pkg/session"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type addItemRequest struct {
	Product     string          `json:"product"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

type addItemResponse struct {
	Item       invoice.LineItem `json:"item"`
	GrandTotal decimal.Decimal  `json:"grand_total"`
}

type catalogResponse struct {
	Options []string `json:"options"`
}

// health godoc
// @Summary  Health check
// @Tags     system
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /healthz [get]
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listCatalog godoc
// @Summary  Product picklist
// @Tags     catalog
// @Produce  json
// @Success  200  {object}  catalogResponse
// @Router   /catalog [get]
func (s *Server) listCatalog(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, catalogResponse{Options: s.catalog.Options()})
}

// listIssued godoc
// @Summary  Recently issued documents
// @Tags     documents
// @Produce  json
// @Param    limit  query     int  false  "Maximum number of documents"
// @Success  200    {array}   register.Issued
// @Router   /issued [get]
func (s *Server) listIssued(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, Message{Message: "limit must be a positive integer", Field: "limit"})
			return
		}
		limit = n
	}

	docs, err := s.register.Recent(r.Context(), limit)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, docs)
}

// createSession godoc
// @Summary  Start a quotation session
// @Tags     sessions
// @Produce  json
// @Success  201  {object}  session.View
// @Router   /sessions [post]
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	sess := s.store.Create()
	s.writeJSON(w, http.StatusCreated, sess.View())
}

// getSession godoc
// @Summary  Current details, items and grand total
// @Tags     sessions
// @Produce  json
// @Param    id   path      string  true  "Session ID"
// @Success  200  {object}  session.View
// @Failure  404  {object}  Message
// @Router   /sessions/{id} [get]
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, sess.View())
}

// endSession godoc
// @Summary  End a session and discard its ledger
// @Tags     sessions
// @Param    id   path  string  true  "Session ID"
// @Success  204
// @Failure  404  {object}  Message
// @Router   /sessions/{id} [delete]
func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil || !s.store.End(id) {
		s.fail(w, session.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// putDetails godoc
// @Summary  Replace company, customer and bank details
// @Tags     sessions
// @Accept   json
// @Produce  json
// @Param    id       path      string           true  "Session ID"
// @Param    request  body      invoice.Details  true  "Details"
// @Success  200      {object}  session.View
// @Failure  400      {object}  Message
// @Failure  404      {object}  Message
// @Router   /sessions/{id}/details [put]
func (s *Server) putDetails(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var details invoice.Details
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		s.writeError(w, http.StatusBadRequest, Message{Message: "invalid request body"})
		return
	}
	if err := details.Validate(); err != nil {
		s.fail(w, err)
		return
	}
	sess.SetDetails(details)
	s.writeJSON(w, http.StatusOK, sess.View())
}

// addItem godoc
// @Summary  Add a line item from the catalog or free text
// @Tags     items
// @Accept   json
// @Produce  json
// @Param    id       path      string          true  "Session ID"
// @Param    request  body      addItemRequest  true  "Item"
// @Success  201      {object}  addItemResponse
// @Failure  400      {object}  Message
// @Router   /sessions/{id}/items [post]
func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, Message{Message: "invalid request body"})
		return
	}

	description, err := s.catalog.Describe(req.Product, req.Description)
	if err != nil {
		s.metrics.itemsRejected.WithLabelValues("product").Inc()
		s.fail(w, err)
		return
	}

	var resp addItemResponse
	err = sess.Do(func(l *ledger.Ledger) error {
		item, err := l.Add(description, req.Quantity, req.Rate)
		if err != nil {
			return err
		}
		resp.Item = item
		resp.GrandTotal = ledger.GrandTotal(l.Snapshot())
		return nil
	})
	if err != nil {
		var verr *invoice.ValidationError
		if errors.As(err, &verr) {
			s.metrics.itemsRejected.WithLabelValues(verr.Field).Inc()
		}
		s.fail(w, err)
		return
	}

	s.metrics.itemsAdded.Inc()
	s.writeJSON(w, http.StatusCreated, resp)
}

// removeItem godoc
// @Summary  Remove the item at a position; later items are renumbered
// @Tags     items
// @Produce  json
// @Param    id   path      string  true  "Session ID"
// @Param    seq  path      int     true  "Sr No. of the item"
// @Success  200  {object}  session.View
// @Failure  404  {object}  Message
// @Router   /sessions/{id}/items/{seq} [delete]
func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	raw := mux.Vars(r)["seq"]
	seq, err := strconv.Atoi(raw)
	if err != nil {
		// only positions too large for an int get here
		s.writeError(w, http.StatusNotFound, Message{Message: fmt.Sprintf("no item at position %s", raw)})
		return
	}
	if err := sess.Do(func(l *ledger.Ledger) error { return l.RemoveAt(seq) }); err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.View())
}

// clearItems godoc
// @Summary  Remove every item
// @Tags     items
// @Produce  json
// @Param    id   path      string  true  "Session ID"
// @Success  200  {object}  session.View
// @Router   /sessions/{id}/items [delete]
func (s *Server) clearItems(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Clear()
	s.writeJSON(w, http.StatusOK, sess.View())
}

// uploadLogo godoc
// @Summary  Upload a PNG or JPEG logo for the document
// @Tags     sessions
// @Accept   multipart/form-data
// @Param    id    path      string  true  "Session ID"
// @Param    logo  formData  file    true  "Logo image"
// @Success  204
// @Failure  400  {object}  Message
// @Router   /sessions/{id}/logo [put]
func (s *Server) uploadLogo(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.writeError(w, http.StatusBadRequest, Message{Message: "logo must be a multipart upload under the size limit", Field: "logo"})
		return
	}
	file, _, err := r.FormFile("logo")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, Message{Message: "missing logo file", Field: "logo"})
		return
	}
	defer file.Close()

	// sniff the type; the renderer picks its decoder by extension
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		s.writeError(w, http.StatusBadRequest, Message{Message: "unreadable logo file", Field: "logo"})
		return
	}
	head = head[:n]

	var ext string
	switch http.DetectContentType(head) {
	case "image/png":
		ext = ".png"
	case "image/jpeg":
		ext = ".jpg"
	default:
		s.writeError(w, http.StatusBadRequest, Message{Message: "logo must be a PNG or JPEG image", Field: "logo"})
		return
	}

	tmp, err := os.CreateTemp(s.uploadDir, "logo-*"+ext)
	if err != nil {
		s.fail(w, err)
		return
	}
	_, err = io.Copy(tmp, io.MultiReader(bytes.NewReader(head), file))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		s.fail(w, err)
		return
	}

	sess.SetLogo(tmp.Name())
	w.WriteHeader(http.StatusNoContent)
}

// downloadInvoice godoc
// @Summary  Render the quotation as a PDF download
// @Tags     documents
// @Produce  application/pdf
// @Param    id   path  string  true  "Session ID"
// @Success  200  {file}  file
// @Failure  404  {object}  Message
// @Failure  500  {object}  Message
// @Router   /sessions/{id}/invoice.pdf [get]
func (s *Server) downloadInvoice(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	// snapshot under the session lock, render outside it
	snap, logo := sess.Capture()
	now := s.now()

	start := time.Now()
	doc, err := s.renderer.Render(snap, render.Options{
		BackgroundPath: s.backgroundPath,
		LogoPath:       logo,
		Date:           now,
	})
	s.metrics.renderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.documents.WithLabelValues("fault").Inc()
		s.fail(w, err)
		return
	}
	s.metrics.documents.WithLabelValues("ok").Inc()

	filename := invoice.FileName(snap.Customer.Name, now)
	s.recordIssued(r, snap, filename, doc, now)
	s.writePDF(w, filename, doc)
}

// recordIssued archives and registers a document. Failures are logged;
// the user still gets the download.
func (s *Server) recordIssued(r *http.Request, snap invoice.Snapshot, filename string, doc []byte, now time.Time) {
	ctx := r.Context()

	location, err := s.archiver.Archive(ctx, filename, doc)
	if err != nil {
		s.logger.Warn("archiving document failed", zap.String("file", filename), zap.Error(err))
	}

	if s.ids == nil {
		return
	}
	issued := register.Issued{
		ID:           s.ids.Next(),
		FileName:     filename,
		CustomerName: snap.Customer.Name,
		ItemCount:    len(snap.Items),
		GrandTotal:   snap.GrandTotal,
		SizeBytes:    len(doc),
		ArchiveURL:   location,
		IssuedAt:     now,
	}
	if err := s.register.Record(ctx, issued); err != nil {
		s.logger.Warn("recording issued document failed", zap.String("file", filename), zap.Error(err))
	}
}

// session resolves the {id} path variable, writing a 404 when it does not
// name a live session.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, session.ErrNotFound)
		return nil, false
	}
	sess, err := s.store.Get(id)
	if err != nil {
		s.fail(w, err)
		return nil, false
	}
	return sess, true
}
