package generate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repograph/internal/infographic"
)

const minimalWrapped = `{
	"success": true,
	"data": {
		"formatVersion": "2.0",
		"schemaName": "interactive-infographic",
		"sourceLocator": "https://github.com/acme/widgets",
		"displayName": "acme/widgets",
		"generatedAt": "2026-08-01T00:00:00Z",
		"root": {
			"id": "root", "type": "repo", "label": "acme/widgets",
			"children": [{
				"id": "p1", "type": "phase", "label": "Pipeline",
				"children": [{
					"id": "f1", "type": "file", "label": "main.go",
					"file": {"filePath": "cmd/main.go", "language": "Go"}
				}]
			}]
		}
	}
}`

func stubServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestGenerate_WrappedSuccess(t *testing.T) {
	srv, _ := stubServer(t, http.StatusOK, minimalWrapped)
	client := NewHTTPClient(srv.URL, "", 0)

	doc, err := client.Generate(context.Background(), "https://github.com/acme/widgets")
	require.NoError(t, err)
	require.Len(t, doc.Root.Children, 1)
	assert.Equal(t, infographic.VariantPhase, doc.Root.Children[0].Variant)

	file := doc.Root.Children[0].Children[0]
	assert.Equal(t, "cmd/main.go", file.File.FilePath)
}

func TestGenerate_DirectDocumentBody(t *testing.T) {
	srv, _ := stubServer(t, http.StatusOK,
		`{"displayName": "direct", "root": {"id": "root", "type": "repo", "label": "direct"}}`)
	client := NewHTTPClient(srv.URL, "", 0)

	doc, err := client.Generate(context.Background(), "https://github.com/acme/widgets")
	require.NoError(t, err)
	assert.Equal(t, "direct", doc.Root.Label)
}

func TestGenerate_InvalidLocatorSkipsNetwork(t *testing.T) {
	srv, calls := stubServer(t, http.StatusOK, minimalWrapped)
	client := NewHTTPClient(srv.URL, "", 0)

	for _, locator := range []string{
		"",
		"not a url",
		"https://example.com/acme/widgets",
		"ftp://github.somewhere.dev/x",
	} {
		_, err := client.Generate(context.Background(), locator)
		require.Error(t, err, locator)
		assert.Equal(t, KindInvalidLocator, KindOf(err), locator)
	}
	assert.Equal(t, int64(0), calls.Load(), "invalid locators must not reach the network")
}

func TestGenerate_StatusClassification(t *testing.T) {
	cases := []struct {
		status int
		body   string
		kind   Kind
	}{
		{http.StatusTooManyRequests, "", KindRateLimited},
		{http.StatusServiceUnavailable, "", KindServiceUnavailable},
		{http.StatusBadGateway, "", KindServiceUnavailable},
		{http.StatusBadRequest, `{"error":{"message":"bad repo"}}`, KindServer},
		{http.StatusInternalServerError, "<html>boom</html>", KindServer},
	}
	for _, tc := range cases {
		srv, _ := stubServer(t, tc.status, tc.body)
		client := NewHTTPClient(srv.URL, "", 0)
		_, err := client.Generate(context.Background(), "https://github.com/acme/widgets")
		require.Error(t, err)
		assert.Equal(t, tc.kind, KindOf(err), "status %d", tc.status)
	}
}

func TestGenerate_ServerErrorMessageExtracted(t *testing.T) {
	srv, _ := stubServer(t, http.StatusBadRequest, `{"error":{"message":"bad repo"}}`)
	client := NewHTTPClient(srv.URL, "", 0)
	_, err := client.Generate(context.Background(), "https://github.com/acme/widgets")
	require.Error(t, err)
	assert.Equal(t, "bad repo", MessageOf(err))
}

func TestGenerate_ServerErrorFallbackMessage(t *testing.T) {
	srv, _ := stubServer(t, http.StatusTeapot, "not json at all")
	client := NewHTTPClient(srv.URL, "", 0)
	_, err := client.Generate(context.Background(), "https://github.com/acme/widgets")
	require.Error(t, err)
	assert.Equal(t, "HTTP 418", MessageOf(err))
}

func TestGenerate_OKWithGarbageBody(t *testing.T) {
	srv, _ := stubServer(t, http.StatusOK, "garbage")
	client := NewHTTPClient(srv.URL, "", 0)
	_, err := client.Generate(context.Background(), "https://github.com/acme/widgets")
	require.Error(t, err)
	assert.Equal(t, KindInvalidResponse, KindOf(err))
}

func TestGenerate_OKWithWrapperFailure(t *testing.T) {
	srv, _ := stubServer(t, http.StatusOK, `{"success": false, "error": "repo too large"}`)
	client := NewHTTPClient(srv.URL, "", 0)
	_, err := client.Generate(context.Background(), "https://github.com/acme/widgets")
	require.Error(t, err)
	assert.Equal(t, KindServer, KindOf(err))
	assert.Equal(t, "repo too large", MessageOf(err))
}

func TestGenerate_OKWithUndecodableDocument(t *testing.T) {
	// 200 plus a document whose root is missing its label: still a failure.
	srv, _ := stubServer(t, http.StatusOK,
		`{"success": true, "data": {"root": {"id": "root", "type": "repo"}}}`)
	client := NewHTTPClient(srv.URL, "", 0)
	_, err := client.Generate(context.Background(), "https://github.com/acme/widgets")
	require.Error(t, err)
	assert.Equal(t, KindDecode, KindOf(err))
}

func TestGenerate_TransportFailure(t *testing.T) {
	srv, _ := stubServer(t, http.StatusOK, minimalWrapped)
	srv.Close() // connection refused from here on
	client := NewHTTPClient(srv.URL, "", 0)
	_, err := client.Generate(context.Background(), "https://github.com/acme/widgets")
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
}

func TestValidateLocator_AcceptedShapes(t *testing.T) {
	for _, locator := range []string{
		"https://github.com/acme/widgets",
		"http://gitlab.com/group/project",
		"github.com/acme/widgets",
		"https://www.github.com/acme/widgets",
		"https://gitlab.example-team.gitlab.com/x/y",
	} {
		assert.NoError(t, ValidateLocator(locator), locator)
	}
}
