package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medallion/internal/library"
	"medallion/internal/sources"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(server.URL, server.URL, "medallion-test", 5*time.Second)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

func TestFetchAppNames(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ISteamApps/GetAppList/v2/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"applist":{"apps":[{"appid":400,"name":"Portal"},{"appid":0,"name":"skip"},{"appid":620,"name":"Portal 2"}]}}`))
	})

	names, err := client.FetchAppNames(context.Background())
	if err != nil {
		t.Fatalf("FetchAppNames failed: %v", err)
	}
	if len(names) != 2 || names[400] != "Portal" || names[620] != "Portal 2" {
		t.Errorf("names = %v", names)
	}
}

func TestFetchAppDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("appids"); got != "440" {
			t.Errorf("appids = %s", got)
		}
		w.Write([]byte(`{"440":{"success":true,"data":{"name":"Team Fortress 2","type":"game","header_image":"https://cdn.test/440.jpg"}}}`))
	})

	details, err := client.FetchAppDetails(context.Background(), 440)
	if err != nil {
		t.Fatalf("FetchAppDetails failed: %v", err)
	}
	if details.Name != "Team Fortress 2" || details.ImageRef != "https://cdn.test/440.jpg" {
		t.Errorf("details = %+v", details)
	}
}

func TestFetchAppDetailsUnsuccessful(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"999999":{"success":false}}`))
	})

	_, err := client.FetchAppDetails(context.Background(), 999999)
	if !errors.Is(err, sources.ErrMalformed) {
		t.Errorf("want malformed, got %v", err)
	}
}

func TestDefaultCandidates(t *testing.T) {
	candidates, err := DefaultCandidates()
	if err != nil {
		t.Fatalf("DefaultCandidates failed: %v", err)
	}
	if len(candidates) == 0 {
		t.Fatal("bundled catalog is empty")
	}

	byID := make(map[uint32]library.Candidate, len(candidates))
	for _, cand := range candidates {
		if cand.AppID == 0 {
			t.Error("zero app id in bundled catalog")
		}
		if cand.HasProgress() {
			t.Errorf("app %d: static catalog must not invent progress", cand.AppID)
		}
		byID[cand.AppID] = cand
	}
	if tf2, ok := byID[440]; !ok || !tf2.HasStatsLink {
		t.Error("expected app 440 with stats link in bundled catalog")
	}
}

func TestDefaultCategories(t *testing.T) {
	categories, err := DefaultCategories()
	if err != nil {
		t.Fatalf("DefaultCategories failed: %v", err)
	}
	if categories[1840] != library.CategoryJunk {
		t.Errorf("app 1840 category = %q", categories[1840])
	}
	if categories[730840] != library.CategoryDemo {
		t.Errorf("app 730840 category = %q", categories[730840])
	}
}
