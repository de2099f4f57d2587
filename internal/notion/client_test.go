package notion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_BlockChildrenPagination(t *testing.T) {
	var gotAuth, gotVersion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Notion-Version")
		if r.URL.Path != "/v1/blocks/root/children" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("start_cursor") {
		case "":
			fmt.Fprint(w, `{
				"results": [
					{"id": "a", "type": "paragraph", "has_children": false, "paragraph": {"rich_text": []}},
					{"id": "b", "type": "divider", "has_children": false, "divider": {}}
				],
				"next_cursor": "cur2",
				"has_more": true
			}`)
		case "cur2":
			fmt.Fprint(w, `{
				"results": [
					{"id": "c", "type": "paragraph", "has_children": false, "paragraph": {"rich_text": []}}
				],
				"next_cursor": null,
				"has_more": false
			}`)
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("start_cursor"))
		}
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL), WithPageSize(2))
	blocks, err := c.BlockChildren(context.Background(), "root")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks across pages, got %d", len(blocks))
	}
	wantIDs := []string{"a", "b", "c"}
	for i, want := range wantIDs {
		if blocks[i].ID != want {
			t.Errorf("block %d: expected id %q, got %q", i, want, blocks[i].ID)
		}
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotVersion != defaultVersion {
		t.Errorf("expected version header %q, got %q", defaultVersion, gotVersion)
	}
}

func TestClient_RetriesRateLimit(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "0.01")
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"code": "rate_limited", "message": "slow down"}`)
			return
		}
		fmt.Fprint(w, `{"results": [], "next_cursor": null, "has_more": false}`)
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	if _, err := c.BlockChildren(context.Background(), "root"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestClient_GivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Header().Set("Retry-After", "0.001")
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"code": "service_unavailable", "message": "down"}`)
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	_, err := c.BlockChildren(context.Background(), "root")
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", apiErr.Status)
	}
	if attempts != maxAttempts {
		t.Errorf("expected %d attempts, got %d", maxAttempts, attempts)
	}
}

func TestClient_PermanentErrorNotRetried(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"code": "object_not_found", "message": "no such block"}`)
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	_, err := c.BlockChildren(context.Background(), "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Code != "object_not_found" {
		t.Errorf("unexpected error details: %+v", apiErr)
	}
	if attempts != 1 {
		t.Errorf("404 should not retry, got %d attempts", attempts)
	}
}

func TestClient_Page(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/pages/p1" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"id": "p1",
			"url": "https://www.notion.so/p1",
			"created_time": "2026-01-02T03:04:05.000Z",
			"last_edited_time": "2026-02-03T04:05:06.000Z",
			"properties": {
				"title": {"type": "title", "title": [{"plain_text": "Doc", "annotations": {}, "href": null}]}
			}
		}`)
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	page, err := c.Page(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Title != "Doc" {
		t.Errorf("expected title Doc, got %q", page.Title)
	}
}
