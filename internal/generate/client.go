package generate

import (
	"context"
	"net/url"
	"strings"

	"repograph/internal/infographic"
)

// Client is the contract the viewer core requires from a generator: given a
// repository locator, asynchronously produce a document or a classified
// failure. The call may be long-running; implementations must honor ctx.
type Client interface {
	Generate(ctx context.Context, repoLocator string) (*infographic.Document, error)
}

// knownHosts are the hosting platforms a locator must identify. The check is
// deliberately shallow: it gates whether a network attempt is worth making,
// nothing more.
var knownHosts = []string{
	"github.com",
	"gitlab.com",
	"bitbucket.org",
	"codeberg.org",
}

// ValidateLocator fails fast with an invalid-locator error when the string
// does not identify a recognizable repository host. No network I/O happens
// here.
func ValidateLocator(locator string) error {
	raw := strings.TrimSpace(locator)
	if raw == "" {
		return invalidLocator(locator)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return invalidLocator(locator)
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	for _, known := range knownHosts {
		if host == known || strings.HasSuffix(host, "."+known) {
			return nil
		}
	}
	return invalidLocator(locator)
}
