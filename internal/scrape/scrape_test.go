package scrape

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchConvertsToMarkdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><h1>Wingspan</h1><p>A bird game for <b>1-5</b> players.</p></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher("", 5*time.Second, testLogger())
	content, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if content.StatusCode != http.StatusOK {
		t.Errorf("status = %d", content.StatusCode)
	}
	if !strings.Contains(content.Markdown, "# Wingspan") {
		t.Errorf("markdown missing heading: %q", content.Markdown)
	}
	if !strings.Contains(content.Markdown, "**1-5**") {
		t.Errorf("markdown missing bold players: %q", content.Markdown)
	}
	if content.HTML == "" {
		t.Error("HTML should be preserved")
	}
}

func TestFetchSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	f := NewFetcher("meeplekeep-test/1.0", 5*time.Second, testLogger())
	if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotUA != "meeplekeep-test/1.0" {
		t.Errorf("user agent = %q", gotUA)
	}
}

func TestFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher("", 5*time.Second, testLogger())
	if _, err := f.Fetch(context.Background(), srv.URL+"/missing"); err == nil {
		t.Fatal("expected error for 404 response")
	}
}
