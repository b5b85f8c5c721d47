package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/quotation-billing/pkg/catalog"
	"github.com/quotation-billing/pkg/invoice"
	"github.com/quotation-billing/pkg/register"
	"github.com/quotation-billing/pkg/render"
	"github.com/quotation-billing/pkg/session"
	"go.uber.org/zap"
)

type recordingArchiver struct {
	names []string
	err   error
}

func (a *recordingArchiver) Archive(_ context.Context, name string, _ []byte) (string, error) {
	a.names = append(a.names, name)
	if a.err != nil {
		return "", a.err
	}
	return "s3://bucket/" + name, nil
}

type testEnv struct {
	srv      *Server
	store    *session.Store
	register *register.MemoryRegister
	archiver *recordingArchiver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithLayout(t, render.DefaultLayout())
}

func newTestEnvWithLayout(t *testing.T, layout render.Layout) *testEnv {
	t.Helper()
	ids, err := register.NewIDs(1)
	if err != nil {
		t.Fatalf("ids: %v", err)
	}
	defaults := invoice.Details{Company: invoice.PartyDetails{Name: "SAMARTH TRADERS"}}
	store := session.NewStore(time.Hour, defaults, zap.NewNop())
	t.Cleanup(store.Close)

	renderer := render.NewRenderer(layout, zap.NewNop())
	renderer.SetCompression(false)

	env := &testEnv{
		store:    store,
		register: register.NewMemoryRegister(),
		archiver: &recordingArchiver{},
	}
	env.srv = New(Deps{
		Store:     store,
		Catalog:   catalog.New(catalog.DefaultProducts),
		Renderer:  renderer,
		Register:  env.register,
		IDs:       ids,
		Archiver:  env.archiver,
		Logger:    zap.NewNop(),
		UploadDir: t.TempDir(),
	})
	env.srv.now = func() time.Time { return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC) }
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createSession(t *testing.T) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/sessions", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: status %d", rec.Code)
	}
	var view session.View
	decode(t, rec, &view)
	return view.ID.String()
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestHealthAndCatalog(t *testing.T) {
	env := newTestEnv(t)

	if rec := env.do(t, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz: status %d", rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/catalog", "")
	var resp catalogResponse
	decode(t, rec, &resp)
	if len(resp.Options) != 6 || resp.Options[0] != catalog.Other {
		t.Fatalf("unexpected options: %v", resp.Options)
	}
}

func TestSessionStartsWithDefaults(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	rec := env.do(t, http.MethodGet, "/sessions/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get session: status %d", rec.Code)
	}
	var view session.View
	decode(t, rec, &view)
	if view.Invoice.Company.Name != "SAMARTH TRADERS" {
		t.Fatalf("defaults not applied: %+v", view.Invoice.Company)
	}
	if len(view.Invoice.Items) != 0 || !view.Invoice.GrandTotal.IsZero() {
		t.Fatalf("new session must have an empty ledger")
	}
}

func TestAddItemComputesAmountAndTotal(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	rec := env.do(t, http.MethodPost, "/sessions/"+id+"/items", `{"product":"Product A","quantity":"2","rate":"10.0"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add: status %d body %s", rec.Code, rec.Body.String())
	}
	var resp addItemResponse
	decode(t, rec, &resp)
	if resp.Item.SequenceNumber != 1 || resp.Item.Description != "Product A" {
		t.Fatalf("unexpected item: %+v", resp.Item)
	}
	if resp.Item.Amount.String() != "20" {
		t.Fatalf("amount = %s, want 20", resp.Item.Amount)
	}

	rec = env.do(t, http.MethodPost, "/sessions/"+id+"/items", `{"product":"Other","description":"Custom fitting","quantity":1,"rate":5}`)
	decode(t, rec, &resp)
	if resp.Item.SequenceNumber != 2 || resp.Item.Description != "Custom fitting" {
		t.Fatalf("unexpected item: %+v", resp.Item)
	}
	if resp.GrandTotal.String() != "25" {
		t.Fatalf("grand total = %s, want 25", resp.GrandTotal)
	}
}

func TestAddItemRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"blank description", `{"product":"Other","description":"  ","quantity":1,"rate":1}`, "description"},
		{"zero quantity", `{"description":"A","quantity":0,"rate":1}`, "quantity"},
		{"negative rate", `{"description":"A","quantity":1,"rate":-1}`, "rate"},
		{"unknown product", `{"product":"Product Z","quantity":1,"rate":1}`, "product"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/sessions/"+id+"/items", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status %d, want 400", rec.Code)
			}
			var msg Message
			decode(t, rec, &msg)
			if msg.Field != tc.field {
				t.Fatalf("field = %q, want %q", msg.Field, tc.field)
			}
		})
	}

	rec := env.do(t, http.MethodGet, "/sessions/"+id, "")
	var view session.View
	decode(t, rec, &view)
	if len(view.Invoice.Items) != 0 {
		t.Fatalf("rejected items must leave the ledger unchanged")
	}
}

func TestRemoveItemRenumbers(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)
	for _, d := range []string{"X", "Y", "Z"} {
		env.do(t, http.MethodPost, "/sessions/"+id+"/items", `{"description":"`+d+`","quantity":1,"rate":1}`)
	}

	rec := env.do(t, http.MethodDelete, "/sessions/"+id+"/items/2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: status %d", rec.Code)
	}
	var view session.View
	decode(t, rec, &view)
	items := view.Invoice.Items
	if len(items) != 2 || items[0].Description != "X" || items[1].Description != "Z" || items[1].SequenceNumber != 2 {
		t.Fatalf("unexpected items after removal: %+v", items)
	}

	if rec := env.do(t, http.MethodDelete, "/sessions/"+id+"/items/9", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("remove out of range: status %d", rec.Code)
	}

	huge := "99999999999999999999999"
	rec = env.do(t, http.MethodDelete, "/sessions/"+id+"/items/"+huge, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("remove overflowing position: status %d", rec.Code)
	}
	var msg Message
	decode(t, rec, &msg)
	if msg.Message != "no item at position "+huge {
		t.Fatalf("unexpected message %q", msg.Message)
	}

	rec = env.do(t, http.MethodDelete, "/sessions/"+id+"/items", "")
	decode(t, rec, &view)
	if len(view.Invoice.Items) != 0 {
		t.Fatalf("clear left items behind")
	}
}

func TestUnknownSession(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/sessions/not-a-uuid", "/sessions/8a1d6c1e-0d3f-4b0a-9a57-5d8f5b1f2e11"} {
		if rec := env.do(t, http.MethodGet, path, ""); rec.Code != http.StatusNotFound {
			t.Fatalf("GET %s: status %d", path, rec.Code)
		}
	}
}

func TestEndSession(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	if rec := env.do(t, http.MethodDelete, "/sessions/"+id, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("end: status %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/sessions/"+id, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("ended session still reachable: status %d", rec.Code)
	}
}

func TestPutDetails(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	rec := env.do(t, http.MethodPut, "/sessions/"+id+"/details", `{"company":{"name":"Shop"},"customer":{"name":"Acme Corp","tax_id":"27AAA"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("details: status %d", rec.Code)
	}
	var view session.View
	decode(t, rec, &view)
	if view.Invoice.Customer.Name != "Acme Corp" || view.Invoice.Customer.TaxID != "27AAA" {
		t.Fatalf("details not stored: %+v", view.Invoice.Customer)
	}

	if rec := env.do(t, http.MethodPut, "/sessions/"+id+"/details", `{`); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed details: status %d", rec.Code)
	}
}

func TestPutDetailsRequiresCompanyName(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	for _, body := range []string{
		`{"company":{"name":"  "},"customer":{"name":"Acme Corp"}}`,
		`{"customer":{"name":"Acme Corp"}}`,
	} {
		rec := env.do(t, http.MethodPut, "/sessions/"+id+"/details", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status %d, want 400", body, rec.Code)
		}
		var msg Message
		decode(t, rec, &msg)
		if msg.Field != "company.name" {
			t.Fatalf("%s: field = %q", body, msg.Field)
		}
	}

	var view session.View
	decode(t, env.do(t, http.MethodGet, "/sessions/"+id, ""), &view)
	if view.Invoice.Company.Name != "SAMARTH TRADERS" || view.Invoice.Customer.Name != "" {
		t.Fatalf("rejected details must not be stored: %+v", view.Invoice.Details)
	}
}

func TestDownloadInvoice(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)
	rec := env.do(t, http.MethodPut, "/sessions/"+id+"/details", `{"company":{"name":"Shop"},"customer":{"name":"Acme Corp"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("details: status %d body %s", rec.Code, rec.Body.String())
	}
	env.do(t, http.MethodPost, "/sessions/"+id+"/items", `{"description":"A","quantity":2,"rate":10}`)

	rec = env.do(t, http.MethodGet, "/sessions/"+id+"/invoice.pdf", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("download: status %d body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "invoice_20261015_Acme_Corp.pdf") {
		t.Fatalf("content disposition %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("body is not a PDF")
	}

	if len(env.archiver.names) != 1 {
		t.Fatalf("expected one archived document, got %d", len(env.archiver.names))
	}
	issued, err := env.register.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(issued) != 1 || issued[0].ItemCount != 1 || issued[0].GrandTotal.String() != "20" {
		t.Fatalf("unexpected register: %+v", issued)
	}
	if issued[0].ArchiveURL != "s3://bucket/invoice_20261015_Acme_Corp.pdf" {
		t.Fatalf("archive url %q", issued[0].ArchiveURL)
	}

	rec = env.do(t, http.MethodGet, "/issued?limit=5", "")
	var listed []register.Issued
	decode(t, rec, &listed)
	if len(listed) != 1 {
		t.Fatalf("issued list: %+v", listed)
	}
}

func TestDownloadSurvivesArchiveFailure(t *testing.T) {
	env := newTestEnv(t)
	env.archiver.err = errors.New("bucket unavailable")
	id := env.createSession(t)

	rec := env.do(t, http.MethodGet, "/sessions/"+id+"/invoice.pdf", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("download: status %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("(No items added)")) {
		t.Fatalf("empty ledger must render the placeholder row")
	}
}

func TestDownloadRenderFault(t *testing.T) {
	env := newTestEnvWithLayout(t, render.Layout{PageSize: "Postcard"})
	id := env.createSession(t)

	rec := env.do(t, http.MethodGet, "/sessions/"+id+"/invoice.pdf", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type %q", ct)
	}
	var msg Message
	decode(t, rec, &msg)
	if msg.Type != "error" || !strings.HasPrefix(msg.Message, "failed to generate PDF: ") {
		t.Fatalf("unexpected body %+v", msg)
	}
	if len(env.archiver.names) != 0 {
		t.Fatalf("failed documents must not be archived")
	}
	if issued, _ := env.register.Recent(context.Background(), 10); len(issued) != 0 {
		t.Fatalf("failed documents must not be registered: %+v", issued)
	}
}

func TestIssuedRejectsBadLimit(t *testing.T) {
	env := newTestEnv(t)
	if rec := env.do(t, http.MethodGet, "/issued?limit=-1", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func logoUpload(t *testing.T, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("logo", "logo.png")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return body, mw.FormDataContentType()
}

func TestUploadLogo(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	var img bytes.Buffer
	if err := png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	body, contentType := logoUpload(t, img.Bytes())
	req := httptest.NewRequest(http.MethodPut, "/sessions/"+id+"/logo", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("upload: status %d body %s", rec.Code, rec.Body.String())
	}

	var view session.View
	decode(t, env.do(t, http.MethodGet, "/sessions/"+id, ""), &view)
	if !view.HasLogo {
		t.Fatalf("logo not attached to session")
	}

	body, contentType = logoUpload(t, []byte("plain text is not an image"))
	req = httptest.NewRequest(http.MethodPut, "/sessions/"+id+"/logo", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	env.srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("non-image upload: status %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)
	env.do(t, http.MethodPost, "/sessions/"+id+"/items", `{"description":"A","quantity":1,"rate":1}`)
	env.do(t, http.MethodPost, "/sessions/"+id+"/items", `{"description":"A","quantity":0,"rate":1}`)

	rec := env.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: status %d", rec.Code)
	}
	out := rec.Body.String()
	for _, want := range []string{
		"quotation_items_added_total 1",
		`quotation_items_rejected_total{field="quantity"} 1`,
		"quotation_sessions 1",
		`quotation_http_requests_total{code="201",route="/sessions"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("metrics missing %q:\n%s", want, out)
		}
	}
}
