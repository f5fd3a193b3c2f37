package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/go-github/v30/github"

	"github.com/HectorLobatoSilva/lapce/internal/logger"
)

const (
	// releaseMediaType is the Accept header sent to the release API.
	releaseMediaType = "application/vnd.github+json"
	// maxJSONResponseBytes bounds the decoded release payload (10 MB).
	maxJSONResponseBytes = 10 << 20
)

// Fetcher retrieves release metadata from a channel endpoint.
type Fetcher struct {
	// client performs the requests.
	client *http.Client
	// userAgent is sent with every request; the release API rejects anonymous agents.
	userAgent string
}

// NewFetcher creates a Fetcher; a nil client means http.DefaultClient.
func NewFetcher(client *http.Client, userAgent string) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}

	return &Fetcher{
		client:    client,
		userAgent: userAgent,
	}
}

// Fetch performs one GET against endpoint and decodes the release it describes.
func (f *Fetcher) Fetch(ctx context.Context, endpoint string) (*Release, error) {
	logger.InfoKV(ctx, "Fetching release metadata", "endpoint", endpoint)

	response, err := get(ctx, f.client, endpoint, f.userAgent, releaseMediaType)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	var payload github.RepositoryRelease
	if err = json.NewDecoder(io.LimitReader(response.Body, maxJSONResponseBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", endpoint, ErrMalformedResponse, err)
	}

	release, err := releaseFromPayload(&payload)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Release metadata received",
		"tag", release.TagName, "version", release.Version, "assets", len(release.Assets))

	return release, nil
}

// get issues a GET request and returns the response when its status is 2xx.
// Any other status is turned into a *RemoteError carrying the response body.
func get(ctx context.Context, client *http.Client, target, userAgent, accept string) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w: %w", target, ErrIO, err)
	}

	request.Header.Set("User-Agent", userAgent)

	if accept != "" {
		request.Header.Set("Accept", accept)
	}

	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w: %w", target, ErrIO, err)
	}

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		defer func() {
			_ = response.Body.Close()
		}()

		body, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBodyBytes))

		return nil, &RemoteError{
			URL:        target,
			StatusCode: response.StatusCode,
			Body:       string(body),
		}
	}

	return response, nil
}
