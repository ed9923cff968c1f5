package wordcloud

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wordcloud" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"wordcloud":"Sim, nao,, SIM "}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", 0)
	got, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"Sim", "nao", "SIM"}) {
		t.Errorf("Fetch = %q", got)
	}
}

func TestFetchMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing field", `{"words":"sim"}`},
		{"not json", `<html>oops</html>`},
		{"wrong type", `{"wordcloud":42}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, 0).Fetch(context.Background())
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, 0).Fetch(context.Background()); err == nil {
		t.Fatal("expected error for 502")
	}
}

func TestClear(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/clear-chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		got = r.URL.Query().Get("words")
	}))
	defer srv.Close()

	if err := NewClient(srv.URL, 0).Clear(context.Background(), []string{"sim", "nao", "claro que sim"}); err != nil {
		t.Fatal(err)
	}
	if got != "sim,nao,claro que sim" {
		t.Errorf("words = %q", got)
	}
}
