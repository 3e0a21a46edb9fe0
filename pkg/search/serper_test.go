package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestSearch_MissingKeyAbsent verifies no API key yields an absent result
func TestSearch_MissingKeyAbsent(t *testing.T) {
	c := NewClient("", "", time.Second)

	if _, ok := c.Search(context.Background(), "anything"); ok {
		t.Error("search without a key should report absent results")
	}
}

// TestSearch_Success verifies organic hits are parsed and the key header sent
func TestSearch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-KEY") != "secret" {
			t.Errorf("missing API key header")
		}
		w.Write([]byte(`{"organic": [{"title": "DeFi News", "link": "https://example.com", "snippet": "yields are up"}]}`))
	}))
	defer server.Close()

	c := NewClient("secret", server.URL, time.Second)
	results, ok := c.Search(context.Background(), "defi last news")
	if !ok {
		t.Fatal("expected results")
	}
	if len(results) != 1 || results[0].Title != "DeFi News" {
		t.Errorf("unexpected results: %+v", results)
	}
}

// TestSearch_NonOKAbsent verifies HTTP failures degrade to absent results
func TestSearch_NonOKAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := NewClient("secret", server.URL, time.Second)
	if _, ok := c.Search(context.Background(), "query"); ok {
		t.Error("non-OK status should report absent results")
	}
}

// TestSearch_TransportAbsent verifies unreachable hosts degrade to absent results
func TestSearch_TransportAbsent(t *testing.T) {
	c := NewClient("secret", "http://127.0.0.1:0", 100*time.Millisecond)
	if _, ok := c.Search(context.Background(), "query"); ok {
		t.Error("transport failure should report absent results")
	}
}

// TestSearch_EmptyOrganicAbsent verifies zero hits count as absent
func TestSearch_EmptyOrganicAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"organic": []}`))
	}))
	defer server.Close()

	c := NewClient("secret", server.URL, time.Second)
	if _, ok := c.Search(context.Background(), "query"); ok {
		t.Error("empty organic list should report absent results")
	}
}

// TestFormatResults verifies hits render as readable prompt context
func TestFormatResults(t *testing.T) {
	got := FormatResults([]Result{
		{Title: "A", Snippet: "first", Link: "https://a"},
		{Title: "B", Snippet: "second"},
	})

	want := "A\nfirst\nhttps://a\n\nB\nsecond"
	if got != want {
		t.Errorf("unexpected rendering:\n%q\nwant:\n%q", got, want)
	}
}
