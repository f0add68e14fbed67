// pkg/nuget/client.go
package nuget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/arc-language/extpkg/pkg/repository"
)

const (
	feedAccept    = "application/atom+xml,application/xml;q=0.9"
	packageAccept = "application/octet-stream,application/zip;q=0.9"

	// maxFeedPageBytes bounds a single metadata page
	maxFeedPageBytes = 32 << 20
)

// Client talks to NuGet v2 feeds: paged Atom metadata queries and package
// downloads
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new feed client with the default timeout
func NewClient() *Client {
	return NewClientWithTimeout(2 * time.Minute)
}

// NewClientWithTimeout creates a new client with custom timeout
func NewClientWithTimeout(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: "extpkg/1.0 (+NuGet v2)",
	}
}

// FeedPage fetches one page of a feed query and returns its entries along
// with the link to the next page. A query the feed answers with 404 has no
// entries.
func (c *Client) FeedPage(ctx context.Context, url string) ([]*repository.Metadata, string, error) {
	resp, err := c.get(ctx, url, feedAccept)
	if err != nil {
		if IsNotFound(err) {
			return nil, "", nil
		}
		return nil, "", err
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || !strings.HasSuffix(mediaType, "xml") {
			return nil, "", fmt.Errorf("unexpected content type %q for %s", ct, url)
		}
	}

	entries, next, err := ParseFeed(io.LimitReader(resp.Body, maxFeedPageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("parsing feed %s: %w", url, err)
	}
	return entries, next, nil
}

// Download copies the package archive at url to w
func (c *Client) Download(ctx context.Context, url string, w io.Writer) (int64, error) {
	resp, err := c.get(ctx, url, packageAccept)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	written, err := io.Copy(w, resp.Body)
	if err != nil {
		return written, fmt.Errorf("copying data: %w", err)
	}
	if resp.ContentLength >= 0 && written != resp.ContentLength {
		return written, fmt.Errorf("short download from %s: got %d of %d bytes", url, written, resp.ContentLength)
	}

	return written, nil
}

func (c *Client) get(ctx context.Context, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)
	// OData v2 feeds
	req.Header.Set("DataServiceVersion", "2.0")
	req.Header.Set("MaxDataServiceVersion", "2.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	return resp, nil
}

// StatusError is returned for unexpected HTTP status codes
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

// IsNotFound reports whether err is a 404 from the feed
func IsNotFound(err error) bool {
	var status *StatusError
	return errors.As(err, &status) && status.StatusCode == http.StatusNotFound
}
