package index

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"librarian/internal/trieve"
)

func TestRemoteBackend_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req trieve.SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.SearchType != "hybrid" || req.Page != 0 || req.PageSize != DefaultPageSize {
			t.Errorf("request = %+v", req)
		}
		if req.ScoreThreshold != 0.05 {
			t.Errorf("ScoreThreshold = %v, want 0.05", req.ScoreThreshold)
		}
		_, _ = w.Write([]byte(`{"score_chunks":[{"score":0.7,"metadata":[{"link":"https://a.example","chunk_html":"<b>go</b>"},{"link":"https://b.example","chunk_html":"x"}]}]}`))
	}))
	defer server.Close()

	backend := NewRemoteBackend(trieve.NewClient(server.URL, trieve.StaticHeaders{}))
	hits, err := backend.Search(context.Background(), SearchParams{Query: "go", ScoreThreshold: 0.05})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 || hits[0].Score != 0.7 || len(hits[0].Metadata) != 2 {
		t.Fatalf("Search() = %+v", hits)
	}
	if hits[0].Metadata[1].Link != "https://b.example" {
		t.Errorf("second metadata link = %q", hits[0].Metadata[1].Link)
	}
}

func TestRemoteBackend_ExistsAndUpsert(t *testing.T) {
	var created []trieve.CreateChunkRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPost:
			var req trieve.CreateChunkRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			created = append(created, req)
		}
	}))
	defer server.Close()

	backend := NewRemoteBackend(trieve.NewClient(server.URL, trieve.StaticHeaders{}))
	ctx := context.Background()

	if backend.Name() != "remote" {
		t.Errorf("Name() = %q", backend.Name())
	}

	exists, err := backend.Exists(ctx, "https://a.example")
	if err != nil || exists {
		t.Fatalf("Exists() = %v, %v; want false, nil", exists, err)
	}

	if err := backend.Upsert(ctx, Chunk{TrackingID: "https://a.example 1", Link: "https://a.example", HTML: "text", Index: 1}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if len(created) != 1 || created[0].TrackingID != "https://a.example 1" || created[0].ChunkHTML != "text" {
		t.Errorf("created = %+v", created)
	}

	if err := backend.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestRemoteBackend_PingUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	backend := NewRemoteBackend(trieve.NewClient(url, trieve.StaticHeaders{}))
	if err := backend.Ping(context.Background()); err == nil {
		t.Error("Ping() against closed server should fail")
	}
}
