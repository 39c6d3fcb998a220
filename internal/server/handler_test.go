package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/slipwaylabs/slipway/internal/core/domain"
)

type stubCatalog struct {
	result domain.SearchResult
	err    error

	gotQuery string
	gotKind  domain.SearchType
	gotLimit int
}

func (s *stubCatalog) Search(ctx context.Context, query string, kind domain.SearchType, limit int) (domain.SearchResult, error) {
	s.gotQuery = query
	s.gotKind = kind
	s.gotLimit = limit
	return s.result, s.err
}

func newTestApp(t *testing.T, catalog *stubCatalog) *fiber.App {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewApp(catalog, log)
}

func doSearch(t *testing.T, app *fiber.App, target string) (*http.Response, domain.SearchResult) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	var out domain.SearchResult
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	resp.Body.Close()
	return resp, out
}

func TestSearchReturnsSimplifiedResults(t *testing.T) {
	catalog := &stubCatalog{result: domain.SearchResult{
		Results: []domain.Item{{Name: "Kind of Blue", URI: "spotify:album:1"}},
		Total:   1,
	}}
	app := newTestApp(t, catalog)

	resp, out := doSearch(t, app, "/search?query=kind+of+blue&type=album")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d want 200", resp.StatusCode)
	}
	if out.Total != 1 || out.Results[0].URI != "spotify:album:1" {
		t.Fatalf("unexpected result: %+v", out)
	}
	if catalog.gotKind != domain.SearchAlbum {
		t.Fatalf("kind=%q want album", catalog.gotKind)
	}
	if catalog.gotLimit != 5 {
		t.Fatalf("limit=%d want default 5", catalog.gotLimit)
	}
}

func TestSearchReplacesUnderscores(t *testing.T) {
	catalog := &stubCatalog{}
	app := newTestApp(t, catalog)

	doSearch(t, app, "/search?query=kind_of_blue&type=album")
	if catalog.gotQuery != "kind of blue" {
		t.Fatalf("query=%q, underscores not replaced", catalog.gotQuery)
	}
}

func TestSearchClampsLimit(t *testing.T) {
	catalog := &stubCatalog{}
	app := newTestApp(t, catalog)

	doSearch(t, app, "/search?query=x&type=track&limit=500")
	if catalog.gotLimit != 50 {
		t.Fatalf("limit=%d want 50", catalog.gotLimit)
	}

	doSearch(t, app, "/search?query=x&type=track&limit=-3")
	if catalog.gotLimit != 1 {
		t.Fatalf("limit=%d want 1", catalog.gotLimit)
	}
}

func TestSearchRejectsNonNumericLimit(t *testing.T) {
	catalog := &stubCatalog{}
	app := newTestApp(t, catalog)

	resp, _ := doSearch(t, app, "/search?query=x&type=track&limit=abc")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d want 422", resp.StatusCode)
	}
	if catalog.gotQuery != "" {
		t.Fatal("catalog queried despite invalid limit")
	}
}

func TestSearchRejectsUnknownType(t *testing.T) {
	app := newTestApp(t, &stubCatalog{})
	resp, _ := doSearch(t, app, "/search?query=x&type=artist")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d want 422", resp.StatusCode)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	app := newTestApp(t, &stubCatalog{})
	resp, _ := doSearch(t, app, "/search?type=track")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d want 422", resp.StatusCode)
	}
}

func TestSearchProviderErrorYieldsEmptyResult(t *testing.T) {
	catalog := &stubCatalog{err: fmt.Errorf("upstream down")}
	app := newTestApp(t, catalog)

	resp, out := doSearch(t, app, "/search?query=x&type=track")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d want 200", resp.StatusCode)
	}
	if out.Total != 0 || out.Results == nil || len(out.Results) != 0 {
		t.Fatalf("want empty result set, got %+v", out)
	}
}
