package content

import (
	"catalogd/internal/providers"
	"catalogd/internal/structures"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// Resource paths of the static content files, relative to the content
// base URL.
const (
	PathProducts   = "/data/products.json"
	PathCategories = "/data/categories.json"
	PathBrands     = "/data/brands.json"
	PathPromotions = "/data/promotions.json"
	PathSiteInfo   = "/data/site-info.json"
)

// PagePath returns the resource path of a static page document.
func PagePath(pageID string) string {
	return "/data/pages/" + pageID + ".json"
}

const maxDocumentSize = 8 << 20 // 8 MB

type FailureKind string

const (
	FailTransport FailureKind = "transport"
	FailStatus    FailureKind = "status"
	FailDecode    FailureKind = "decode"
)

// FetchError is the typed failure of a single content fetch. Status is
// only set for FailStatus.
type FetchError struct {
	Path   string
	Kind   FailureKind
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FailStatus:
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Path, e.Status)
	case FailDecode:
		return fmt.Sprintf("fetch %s: invalid JSON: %s", e.Path, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %s", e.Path, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher retrieves one static JSON resource per call. No retries, no
// backoff; failures are reported as *FetchError.
type Fetcher interface {
	FetchJSON(ctx context.Context, path string, v any) error
}

type HTTPFetcher struct {
	baseURL string
	client  *http.Client
	logger  providers.Logger
}

func NewFetcher(conf *structures.Config, logger providers.Logger) Fetcher {
	timeout := conf.Content.FetchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{
		baseURL: strings.TrimRight(conf.Content.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (f *HTTPFetcher) FetchJSON(ctx context.Context, path string, v any) error {
	url := f.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &FetchError{Path: path, Kind: FailTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warnf(providers.TypeContent, "Fetch %s failed: %s", path, err)
		return &FetchError{Path: path, Kind: FailTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Warnf(providers.TypeContent, "Fetch %s returned status %d", path, resp.StatusCode)
		return &FetchError{Path: path, Kind: FailStatus, Status: resp.StatusCode}
	}

	body := io.LimitReader(resp.Body, maxDocumentSize)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		f.logger.Warnf(providers.TypeContent, "Fetch %s returned invalid JSON: %s", path, err)
		return &FetchError{Path: path, Kind: FailDecode, Err: err}
	}
	return nil
}
