package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sll518/notion-to-md/internal/config"
	"github.com/sll518/notion-to-md/internal/notion"
	"github.com/sll518/notion-to-md/internal/pipeline"
)

const (
	testKey  = "test-api-key"
	testPage = "96245c8f-1784-44a4-82ad-72ce39bfb9ef"
)

type fakeConverter struct {
	markdown string
	err      error
}

func (f *fakeConverter) PageToMarkdown(ctx context.Context, pageID string) (string, error) {
	return f.markdown, f.err
}

type fakePages struct {
	page *notion.Page
	err  error
}

func (f *fakePages) Page(ctx context.Context, pageID string) (*notion.Page, error) {
	return f.page, f.err
}

func newTestServer(t *testing.T, conv Converter, pages PageFetcher) (*Server, *pipeline.Exporter) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	exp := pipeline.NewExporter(pipeline.Config{Workers: 1}, conv, log)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	exp.Start(ctx)
	t.Cleanup(exp.Stop)

	cfg := config.Config{ServiceAPIKey: testKey}
	return NewServer(conv, pages, exp, log, cfg), exp
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body any, auth bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if auth {
		req.Header.Set("Authorization", "Bearer "+testKey)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHandleConvert_RequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t, &fakeConverter{markdown: "# Hi\n"}, &fakePages{})
	rec := doJSON(t, srv, http.MethodPost, "/api/convert", map[string]string{"page_id": testPage}, false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestHandleConvert_Markdown(t *testing.T) {
	srv, _ := newTestServer(t, &fakeConverter{markdown: "## Hello\n"}, &fakePages{})
	rec := doJSON(t, srv, http.MethodPost, "/api/convert", map[string]any{"page_id": testPage}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp convertResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Content != "## Hello\n" || resp.Format != "markdown" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.PageID != testPage {
		t.Errorf("expected normalized page id, got %q", resp.PageID)
	}
}

func TestHandleConvert_HTML(t *testing.T) {
	srv, _ := newTestServer(t, &fakeConverter{markdown: "## Hello\n"}, &fakePages{})
	rec := doJSON(t, srv, http.MethodPost, "/api/convert",
		map[string]any{"page_id": testPage, "format": "html"}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp convertResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(resp.Content, "<h2") {
		t.Errorf("expected html heading, got %q", resp.Content)
	}
}

func TestHandleConvert_FrontMatter(t *testing.T) {
	pages := &fakePages{page: &notion.Page{ID: testPage, Title: "Doc"}}
	srv, _ := newTestServer(t, &fakeConverter{markdown: "# Hi\n"}, pages)
	rec := doJSON(t, srv, http.MethodPost, "/api/convert",
		map[string]any{"page_id": testPage, "frontmatter": true}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp convertResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(resp.Content, "---\n") || !strings.Contains(resp.Content, "title: Doc") {
		t.Errorf("expected frontmatter header, got %q", resp.Content)
	}
}

func TestHandleConvert_BadRequests(t *testing.T) {
	srv, _ := newTestServer(t, &fakeConverter{markdown: "x"}, &fakePages{})
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing page_id", map[string]any{}},
		{"invalid page_id", map[string]any{"page_id": "nope"}},
		{"bad format", map[string]any{"page_id": testPage, "format": "pdf"}},
	}
	for _, tt := range tests {
		rec := doJSON(t, srv, http.MethodPost, "/api/convert", tt.body, true)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tt.name, rec.Code)
		}
	}
}

func TestHandleConvert_UpstreamErrors(t *testing.T) {
	notFound := &notion.APIError{Status: http.StatusNotFound, Code: "object_not_found"}
	srv, _ := newTestServer(t, &fakeConverter{err: notFound}, &fakePages{})
	rec := doJSON(t, srv, http.MethodPost, "/api/convert", map[string]any{"page_id": testPage}, true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing page, got %d", rec.Code)
	}

	down := &notion.APIError{Status: http.StatusServiceUnavailable}
	srv, _ = newTestServer(t, &fakeConverter{err: down}, &fakePages{})
	rec = doJSON(t, srv, http.MethodPost, "/api/convert", map[string]any{"page_id": testPage}, true)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502 for remote failure, got %d", rec.Code)
	}

	srv, _ = newTestServer(t, &fakeConverter{err: errors.New("boom")}, &fakePages{})
	rec = doJSON(t, srv, http.MethodPost, "/api/convert", map[string]any{"page_id": testPage}, true)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for internal failure, got %d", rec.Code)
	}
}

func TestHandleExport_Lifecycle(t *testing.T) {
	srv, _ := newTestServer(t, &fakeConverter{markdown: "# Hi\n"}, &fakePages{})
	rec := doJSON(t, srv, http.MethodPost, "/api/export",
		map[string]any{"page_ids": []string{testPage}}, true)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp exportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.JobID == "" || resp.Pages != 1 {
		t.Fatalf("unexpected export response: %+v", resp)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		rec = doJSON(t, srv, http.MethodGet, "/api/export/"+resp.JobID, nil, true)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var snap pipeline.JobSnapshot
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			t.Fatalf("decode snapshot: %v", err)
		}
		if snap.Status == pipeline.StatusCompleted {
			if len(snap.Results) != 1 || snap.Results[0].Markdown != "# Hi\n" {
				t.Fatalf("unexpected results: %+v", snap.Results)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job never completed, last status %s", snap.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHandleExport_BadRequests(t *testing.T) {
	srv, _ := newTestServer(t, &fakeConverter{}, &fakePages{})
	rec := doJSON(t, srv, http.MethodPost, "/api/export", map[string]any{"page_ids": []string{}}, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty page_ids: expected 400, got %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodPost, "/api/export", map[string]any{"page_ids": []string{"bad"}}, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid page id: expected 400, got %d", rec.Code)
	}
}

func TestHandleExportStatus_Unknown(t *testing.T) {
	srv, _ := newTestServer(t, &fakeConverter{}, &fakePages{})
	rec := doJSON(t, srv, http.MethodGet, "/api/export/nope", nil, true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHealth_Public(t *testing.T) {
	srv, _ := newTestServer(t, &fakeConverter{}, &fakePages{})
	rec := doJSON(t, srv, http.MethodGet, "/health", nil, false)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 without auth, got %d", rec.Code)
	}
}
