package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// downloadTimeout bounds each asset fetch. Asset hosts are slower than the
// API endpoint, so this is deliberately looser than the API timeout.
const downloadTimeout = 60 * time.Second

// Outcome is the result of a single download attempt. Failures carry a
// reason instead of an error so callers can log and continue without
// control-flow branching on error types.
type Outcome struct {
	Downloaded bool
	Reason     string // failure reason, empty on success
}

func failure(format string, args ...interface{}) Outcome {
	return Outcome{Reason: fmt.Sprintf(format, args...)}
}

// IsPresigned reports whether a URL is a time-limited pre-signed storage
// link. Pre-signed URLs must be fetched without the platform authorization
// header: attaching it would break the signature or leak the credential to
// a third-party host.
func IsPresigned(url string) bool {
	return strings.Contains(url, "s3.amazonaws.com") || strings.Contains(url, "X-Amz-Algorithm")
}

// Downloader fetches asset bytes and persists them to local files.
type Downloader struct {
	client *http.Client
	token  string
}

// NewDownloader creates a Downloader that attaches the given session
// credential to non-pre-signed URLs.
func NewDownloader(token string) *Downloader {
	return &Downloader{
		client: &http.Client{Timeout: downloadTimeout},
		token:  token,
	}
}

// Fetch downloads the URL to dest, creating parent directories as needed.
// Bytes are written verbatim with no decoding or integrity check. Any
// transport error, timeout, or non-200 status yields a failed Outcome;
// Fetch never returns an error and never aborts the caller's loop.
func (d *Downloader) Fetch(ctx context.Context, url, dest string) Outcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return failure("invalid URL: %v", err)
	}

	if d.token != "" && !IsPresigned(url) {
		req.Header.Set("Authorization", d.token)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return failure("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return failure("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure("reading response: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return failure("creating directory: %v", err)
	}

	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return failure("writing file: %v", err)
	}

	return Outcome{Downloaded: true}
}
