package updater

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/HectorLobatoSilva/lapce/internal/logger"
)

// Downloader streams the installer asset of the host platform to disk.
type Downloader struct {
	// client performs the download.
	client *http.Client
	// userAgent is sent with the request.
	userAgent string
	// platform names the expected asset.
	platform PlatformOps
}

// NewDownloader creates a Downloader; a nil client means http.DefaultClient.
func NewDownloader(client *http.Client, userAgent string, platform PlatformOps) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}

	return &Downloader{
		client:    client,
		userAgent: userAgent,
		platform:  platform,
	}
}

// Download writes the platform asset of release to <dir>/<asset name> and returns that path.
// An existing file at the path is overwritten. A partially written file is left in place on failure.
func (d *Downloader) Download(ctx context.Context, release *Release, dir string) (string, error) {
	name, err := d.platform.ExpectedAssetName()
	if err != nil {
		return "", err
	}

	asset, err := release.FindAsset(name)
	if err != nil {
		return "", err
	}

	logger.InfoKV(ctx, "Downloading release asset", "asset", asset.Name, "url", asset.DownloadURL)

	response, err := get(ctx, d.client, asset.DownloadURL, d.userAgent, "")
	if err != nil {
		return "", err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	target := filepath.Join(dir, asset.Name)

	file, err := os.Create(filepath.Clean(target))
	if err != nil {
		return "", fmt.Errorf("create %s: %w: %w", target, ErrIO, err)
	}

	written, err := io.Copy(file, response.Body)
	if err != nil {
		_ = file.Close()
		return "", fmt.Errorf("write %s: %w: %w", target, ErrIO, err)
	}

	if err = file.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w: %w", target, ErrIO, err)
	}

	logger.InfoKV(ctx, "Release asset saved", "path", target, "bytes", written)

	return target, nil
}
