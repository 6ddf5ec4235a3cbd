package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPageTitlePrefersOpenGraph(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
			<title>Raw Title - Site Name</title>
			<meta property="og:title" content="Clean Title">
		</head><body></body></html>`))
	}))
	defer srv.Close()

	got, err := NewProber().PageTitle(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("PageTitle: %v", err)
	}
	if got != "Clean Title" {
		t.Fatalf("got %q, want og:title value", got)
	}
}

func TestPageTitleFallsBackToTitleTag(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>  Only Title  </title></head><body></body></html>`))
	}))
	defer srv.Close()

	got, err := NewProber().PageTitle(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("PageTitle: %v", err)
	}
	if got != "Only Title" {
		t.Fatalf("got %q, want trimmed title text", got)
	}
}

func TestPageTitleNoTitle(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>nothing here</body></html>`))
	}))
	defer srv.Close()

	if _, err := NewProber().PageTitle(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for a page with no title")
	}
}

func TestPageTitleHonorsCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewProber().PageTitle(ctx, "http://127.0.0.1:1/unreachable"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
