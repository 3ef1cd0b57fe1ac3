// Copyright (c) Supportstack. All rights reserved.

package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/supportstack/support-agent/httpapi"
	"github.com/supportstack/support-agent/support"
	"github.com/supportstack/support-agent/supportagent"
)

func newTestServer() *httpapi.Server {
	kb := support.NewKnowledgeBase()
	tickets := support.NewTicketStore()
	customers := support.NewCustomerStore()
	collector := supportagent.NewCollector()

	agent := supportagent.NewAgent(
		support.NewRouter(kb, tickets, customers),
		supportagent.WithCustomerResolver(customers),
		supportagent.WithCollector(collector),
		supportagent.WithMiddleware(
			supportagent.LoggingMiddleware(nil, collector),
			supportagent.ValidationMiddleware(nil),
			supportagent.AnalyticsMiddleware(nil, collector),
		),
	)
	return httpapi.NewServer(agent, nil)
}

func postChat(t *testing.T, srv *httpapi.Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Chat(t *testing.T) {
	srv := newTestServer()

	rec := postChat(t, srv, `{"session_id":"web1","customer_id":"CUST-12345","message":"I forgot my password"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp struct {
		SessionID string `json:"session_id"`
		Reply     string `json:"reply"`
		Turn      int    `json:"turn"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID != "web1" {
		t.Errorf("session_id = %q", resp.SessionID)
	}
	if resp.Turn != 1 {
		t.Errorf("turn = %d", resp.Turn)
	}
	if !strings.Contains(resp.Reply, "password issues") {
		t.Errorf("reply = %q", resp.Reply)
	}
	if !strings.HasPrefix(resp.Reply, "Hello Customer 2345") {
		t.Errorf("missing greeting: %q", resp.Reply)
	}

	// Second turn on the same session preserves history.
	rec = postChat(t, srv, `{"session_id":"web1","message":"what about shipping?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Turn != 2 {
		t.Errorf("turn = %d, want 2", resp.Turn)
	}
}

func TestServer_ChatGeneratesSessionID(t *testing.T) {
	srv := newTestServer()

	rec := postChat(t, srv, `{"message":"hello, I need help"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		SessionID string `json:"session_id"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.SessionID == "" {
		t.Fatal("server should return the generated session id")
	}

	// The generated id is addressable afterwards.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+resp.SessionID+"/summary", nil)
	rec2 := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Errorf("summary status = %d", rec2.Code)
	}
}

func TestServer_ChatValidation(t *testing.T) {
	srv := newTestServer()

	rec := postChat(t, srv, `{"message":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty message: status = %d, want 400", rec.Code)
	}

	rec = postChat(t, srv, `{"message":"<script>alert(1)</script>"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blocked content: status = %d, want 400", rec.Code)
	}
}

func TestServer_SummaryAndExport(t *testing.T) {
	srv := newTestServer()
	postChat(t, srv, `{"session_id":"web2","message":"what is your return policy?"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/web2/summary", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d", rec.Code)
	}
	var summary struct {
		SessionID  string `json:"session_id"`
		TotalTurns int    `json:"total_turns"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.SessionID != "web2" || summary.TotalTurns != 1 {
		t.Errorf("summary = %+v", summary)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sessions/web2/export?format=text", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "USER: what is your return policy?") {
		t.Errorf("export body = %q", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sessions/web2/export?format=xml", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad format status = %d, want 400", rec.Code)
	}
}

func TestServer_UnknownSession(t *testing.T) {
	srv := newTestServer()

	for _, path := range []string{
		"/api/v1/sessions/nope/summary",
		"/api/v1/sessions/nope/export",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", path, rec.Code)
		}
	}
}

func TestServer_Metrics(t *testing.T) {
	srv := newTestServer()
	postChat(t, srv, `{"message":"great, thank you"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var m struct {
		TotalRequests int `json:"total_requests"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.TotalRequests != 1 {
		t.Errorf("total_requests = %d", m.TotalRequests)
	}
}
