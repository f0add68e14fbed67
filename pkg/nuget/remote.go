// pkg/nuget/remote.go
package nuget

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/arc-language/extpkg/pkg/repository"
)

// RemoteRepository queries a NuGet v2 (OData/Atom) feed over HTTP
type RemoteRepository struct {
	baseURL string
	client  *Client
	logger  *log.Logger
}

// NewRemoteRepository creates a repository for the feed at baseURL
func NewRemoteRepository(baseURL string, cfg *Config) *RemoteRepository {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	client := NewClient()
	if cfg.Timeout > 0 {
		client = NewClientWithTimeout(cfg.Timeout)
	}

	return &RemoteRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

// Source returns the feed URL
func (r *RemoteRepository) Source() string {
	return r.baseURL
}

// Find lists every version of q.ID and picks the best match
func (r *RemoteRepository) Find(ctx context.Context, q repository.Query) (*repository.Metadata, error) {
	// Reject a bad spec before going to the network
	if _, err := repository.ParseVersionSpec(q.VersionSpec); err != nil {
		return nil, err
	}

	versions, err := r.Versions(ctx, q.ID)
	if err != nil {
		return nil, err
	}

	best, err := repository.SelectBest(q, versions)
	if err != nil {
		return nil, err
	}
	if best == nil {
		return nil, &repository.NotFoundError{ID: q.ID, VersionSpec: q.VersionSpec, Sources: []string{r.baseURL}}
	}

	best.Source = r.baseURL
	return best, nil
}

// Versions returns every version of id the feed offers, following paging
// links. An unknown id yields an empty list.
func (r *RemoteRepository) Versions(ctx context.Context, id string) ([]*repository.Metadata, error) {
	quoted := "'" + strings.ReplaceAll(id, "'", "''") + "'"
	next := fmt.Sprintf("%s/FindPackagesById()?id=%s", r.baseURL, url.QueryEscape(quoted))

	var all []*repository.Metadata
	for page := 0; next != "" && page < maxFeedPages; page++ {
		r.logger.Debugf("  Fetching package metadata: %s", next)

		entries, link, err := r.client.FeedPage(ctx, next)
		if err != nil {
			return nil, fmt.Errorf("querying %s: %w", r.baseURL, err)
		}

		all = append(all, entries...)
		next = link
	}

	return all, nil
}

// Fetch downloads the package archive for m into w
func (r *RemoteRepository) Fetch(ctx context.Context, m *repository.Metadata, w io.Writer) error {
	downloadURL := m.DownloadURL
	if downloadURL == "" {
		downloadURL = fmt.Sprintf("%s/package/%s/%s", r.baseURL, url.PathEscape(m.ID), url.PathEscape(m.Version))
	}

	r.logger.Debugf("Downloading from: %s", downloadURL)
	written, err := r.client.Download(ctx, downloadURL, w)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", m, err)
	}
	r.logger.Debugf("  Downloaded %d bytes", written)
	return nil
}
