package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"repograph/internal/docstore"
	"repograph/internal/generate"
	"repograph/internal/infographic"
	"repograph/internal/resource"
)

type stubClient struct {
	doc *infographic.Document
	err error
}

func (c *stubClient) Generate(_ context.Context, repoLocator string) (*infographic.Document, error) {
	if err := generate.ValidateLocator(repoLocator); err != nil {
		return nil, err
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.doc, nil
}

func testDoc(locator string) *infographic.Document {
	return &infographic.Document{
		FormatVersion: infographic.FormatVersion,
		SchemaName:    infographic.SchemaName,
		SourceLocator: locator,
		DisplayName:   "acme/widgets",
		Root: &infographic.Node{
			ID: "root", Variant: infographic.VariantRepo, Label: "acme/widgets",
			Children: []*infographic.Node{
				{ID: "p1", Variant: infographic.VariantPhase, Label: "Pipeline"},
			},
		},
	}
}

func newTestHandler(client generate.Client, store docstore.Store) http.Handler {
	return BuildMux(NewService(client, store, resource.NewStore("")))
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func getPath(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGenerate_HappyPathPersists(t *testing.T) {
	locator := "https://github.com/acme/widgets"
	store := docstore.NewMemoryStore()
	h := newTestHandler(&stubClient{doc: testDoc(locator)}, store)

	rec := postJSON(t, h, "/api/generate", `{"repo_url": "`+locator+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Success    bool                  `json:"success"`
		DocumentID string                `json:"documentId"`
		Data       *infographic.Document `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Data == nil || resp.Data.DisplayName != "acme/widgets" {
		t.Fatalf("unexpected response: %s", rec.Body)
	}
	if resp.DocumentID != docstore.DocumentID(locator) {
		t.Fatalf("unexpected document id %q", resp.DocumentID)
	}

	raw, err := store.Get(context.Background(), resp.DocumentID)
	if err != nil {
		t.Fatalf("document was not persisted: %v", err)
	}
	if doc, err := infographic.Decode(raw); err != nil || doc.SourceLocator != locator {
		t.Fatalf("stored document is wrong: %v %v", doc, err)
	}
}

func TestGenerate_InvalidLocatorIs400(t *testing.T) {
	h := newTestHandler(&stubClient{}, docstore.NewMemoryStore())
	rec := postJSON(t, h, "/api/generate", `{"repo_url": "https://example.com/x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), generate.KindInvalidLocator.String()) {
		t.Fatalf("body should carry the error kind: %s", rec.Body)
	}
}

func TestGenerate_ErrorKindToStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{&generate.Error{Kind: generate.KindRateLimited, Message: "slow down"}, http.StatusTooManyRequests},
		{&generate.Error{Kind: generate.KindServiceUnavailable, Message: "upstream down"}, http.StatusServiceUnavailable},
		{&generate.Error{Kind: generate.KindServer, Message: "boom"}, http.StatusBadGateway},
		{&generate.Error{Kind: generate.KindTransport, Message: "dial fail"}, http.StatusBadGateway},
	}
	for _, tc := range cases {
		h := newTestHandler(&stubClient{err: tc.err}, docstore.NewMemoryStore())
		rec := postJSON(t, h, "/api/generate", `{"repo_url": "https://github.com/acme/widgets"}`)
		if rec.Code != tc.status {
			t.Fatalf("kind %v: status %d, want %d", generate.KindOf(tc.err), rec.Code, tc.status)
		}
	}
}

func TestGenerate_BadBodyIs400(t *testing.T) {
	h := newTestHandler(&stubClient{}, docstore.NewMemoryStore())
	rec := postJSON(t, h, "/api/generate", "not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestDocuments_ListGetOutline(t *testing.T) {
	locator := "https://github.com/acme/widgets"
	store := docstore.NewMemoryStore()
	doc := testDoc(locator)
	raw, err := doc.Encode()
	if err != nil {
		t.Fatal(err)
	}
	id := docstore.DocumentID(locator)
	if err := store.Put(context.Background(), id, raw); err != nil {
		t.Fatal(err)
	}
	h := newTestHandler(&stubClient{}, store)

	rec := getPath(t, h, "/api/documents")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), id) {
		t.Fatalf("listing broken: %d %s", rec.Code, rec.Body)
	}

	rec = getPath(t, h, "/api/documents/"+id)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status %d", rec.Code)
	}
	if got, err := infographic.Decode(rec.Body.Bytes()); err != nil || got.DisplayName != "acme/widgets" {
		t.Fatalf("returned document broken: %v %v", got, err)
	}

	rec = getPath(t, h, "/api/documents/"+id+"/outline")
	if rec.Code != http.StatusOK {
		t.Fatalf("outline status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "[phase] Pipeline") {
		t.Fatalf("outline should show expanded children:\n%s", rec.Body)
	}

	rec = getPath(t, h, "/api/documents/doc-missing")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing document status %d", rec.Code)
	}
}

func TestResources_ListAndGet(t *testing.T) {
	h := newTestHandler(&stubClient{}, docstore.NewMemoryStore())

	rec := getPath(t, h, "/api/resources")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "sample_repo") {
		t.Fatalf("resource listing broken: %d %s", rec.Code, rec.Body)
	}

	rec = getPath(t, h, "/api/resources/sample_repo")
	if rec.Code != http.StatusOK {
		t.Fatalf("resource get status %d", rec.Code)
	}
	if doc, err := infographic.Decode(rec.Body.Bytes()); err != nil || doc.Root == nil {
		t.Fatalf("resource body broken: %v %v", doc, err)
	}

	rec = getPath(t, h, "/api/resources/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing resource status %d", rec.Code)
	}
}

func TestCORS_HeadersPresent(t *testing.T) {
	h := newTestHandler(&stubClient{}, docstore.NewMemoryStore())
	rec := getPath(t, h, "/api/resources")
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatal("CORS headers missing")
	}
}
