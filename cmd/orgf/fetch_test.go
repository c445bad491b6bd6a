package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.org" {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("* Remote\n"))
	}))
	defer srv.Close()

	body, err := fetchURL(context.Background(), srv.Client(), srv.URL+"/doc.org")
	if err != nil {
		t.Fatalf("fetchURL: %v", err)
	}
	if string(body) != "* Remote\n" {
		t.Fatalf("unexpected body: %q", string(body))
	}
	if _, err := fetchURL(context.Background(), srv.Client(), srv.URL+"/missing.org"); err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestFetchURLRejectsInput(t *testing.T) {
	if _, err := fetchURL(context.Background(), nil, "ftp://example.com/a.org"); err == nil {
		t.Fatalf("expected unsupported scheme error")
	}
	if _, err := fetchURL(context.Background(), nil, ""); err == nil {
		t.Fatalf("expected missing URL error")
	}
}
