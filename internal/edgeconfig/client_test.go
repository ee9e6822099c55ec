package edgeconfig

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/items" {
			t.Errorf("expected /items, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected bearer token, got %q", got)
		}
		keys := r.URL.Query()["key"]
		if len(keys) != 3 {
			t.Errorf("expected 3 keys in one batched call, got %v", keys)
		}
		w.Write([]byte(`{"maintenanceEnabled":true,"maintenanceStartTime":"2026-03-01T02:00:00Z"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	items, err := c.Items("maintenanceEnabled", "maintenanceStartTime", "maintenanceEndTime")
	if err != nil {
		t.Fatalf("Items: %v", err)
	}

	if enabled, ok := items["maintenanceEnabled"].(bool); !ok || !enabled {
		t.Errorf("expected maintenanceEnabled true, got %v", items["maintenanceEnabled"])
	}
	if _, present := items["maintenanceEndTime"]; present {
		t.Error("keys absent from the store must be absent from the map")
	}
}

func TestItemsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, "bad").Items("maintenanceEnabled"); err == nil {
		t.Error("expected error on non-200 response")
	}
}

func TestItemsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	if _, err := NewClient(srv.URL, "").Items("maintenanceEnabled"); err == nil {
		t.Error("expected error when the store is unreachable")
	}
}
