package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestSuggestSynonyms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
			return
		}
		if !strings.Contains(req.Messages[0].Content, "Option label: Sim") {
			t.Errorf("prompt missing label: %q", req.Messages[0].Content)
		}
		w.Write([]byte(`{"content":[{"type":"text","text":"Sim, SS, claro que sim,\nnao, bora"}]}`))
	}))
	defer srv.Close()

	c := &Client{apiKey: "test-key", apiURL: srv.URL, httpClient: srv.Client(), model: defaultModel}
	got, err := c.SuggestSynonyms(context.Background(), SynonymRequest{Label: "Sim", Avoid: []string{"Não"}, Max: 3})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"sim", "ss", "claro que sim"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSuggestSynonymsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"type":"auth","message":"bad key"}}`))
	}))
	defer srv.Close()

	c := &Client{apiKey: "x", apiURL: srv.URL, httpClient: srv.Client(), model: defaultModel}
	if _, err := c.SuggestSynonyms(context.Background(), SynonymRequest{Label: "Sim"}); err == nil || !strings.Contains(err.Error(), "bad key") {
		t.Errorf("expected API error, got %v", err)
	}
}

func TestFilterSuggestionsAvoidsOtherKeys(t *testing.T) {
	got := filterSuggestions("nao, n, nope", SynonymRequest{Avoid: []string{"NÃO"}, Max: 10})
	if !reflect.DeepEqual(got, []string{"n", "nope"}) {
		t.Errorf("got %q", got)
	}
}
