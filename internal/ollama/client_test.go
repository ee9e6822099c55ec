package ollama

import (
	"encoding/json"
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

func newTestClient(url string) *Client {
	return NewClient(url, 5*time.Second, 5*time.Second, testLogger())
}

func TestCheckStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("expected /api/tags, got %s", r.URL.Path)
		}
		w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	if !newTestClient(srv.URL).CheckStatus() {
		t.Error("expected server to be accessible")
	}
}

func TestCheckStatusNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if newTestClient(srv.URL).CheckStatus() {
		t.Error("expected non-200 to report unreachable")
	}
}

func TestCheckStatusTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	if newTestClient(srv.URL).CheckStatus() {
		t.Error("expected closed server to report unreachable")
	}
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[
			{"name":"llama3.1:8b","size":4661224676,"modified_at":"2024-03-05T12:30:00Z","digest":"sha256:abc"},
			{"name":"mistral-instruct","size":0}
		]}`))
	}))
	defer srv.Close()

	infos, err := newTestClient(srv.URL).ListModels()
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 models, got %d", len(infos))
	}

	first := infos[0]
	if first.ID != "ollama/llama3.1:8b" {
		t.Errorf("expected namespaced id, got %s", first.ID)
	}
	if first.DisplayName != "Llama 3.1:8b (8B)" {
		t.Errorf("unexpected display name %q", first.DisplayName)
	}
	if first.Size != 4661224676 {
		t.Errorf("unexpected size %d", first.Size)
	}
	if first.Digest != "sha256:abc" {
		t.Errorf("unexpected digest %s", first.Digest)
	}

	second := infos[1]
	if second.ModifiedAt != "" || second.Digest != "" {
		t.Error("expected missing fields to default to empty")
	}
}

func TestListModelsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).ListModels(); err == nil {
		t.Error("expected error on non-200 listing")
	}
}

func TestPull(t *testing.T) {
	var gotBody nameRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/pull" {
			t.Errorf("expected POST /api/pull, got %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode pull body: %v", err)
		}
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	if err := newTestClient(srv.URL).Pull("gemma:7b"); err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if gotBody.Name != "gemma:7b" {
		t.Errorf("expected model name in body, got %q", gotBody.Name)
	}
}

func TestPullFailureCarriesServerPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"pull model manifest: file does not exist"}`))
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).Pull("nope")
	if err == nil {
		t.Fatal("expected pull error")
	}
	if !strings.Contains(err.Error(), "file does not exist") {
		t.Errorf("expected server payload in error, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/delete" {
			t.Errorf("expected DELETE /api/delete, got %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode delete body: %v", err)
		}
		if body["name"] != "gemma:7b" {
			t.Errorf("expected model name in body, got %q", body["name"])
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if err := newTestClient(srv.URL).Delete("gemma:7b"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestShowModelUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	info, err := newTestClient(srv.URL).ShowModel("ghost")
	if err != nil {
		t.Fatalf("ShowModel: %v", err)
	}
	if info != nil {
		t.Error("expected nil info for unknown model")
	}
}
