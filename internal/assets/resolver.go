// Package assets resolves and downloads the file attachments and embedded
// images referenced by an item export. All operations are best-effort: a
// failure to resolve or fetch one asset never aborts the export.
package assets

import (
	"context"
	"regexp"

	"github.com/robby/pulsedump/internal/domain"
)

// Embedded image references appear in update bodies either as HTML img tags
// or as Markdown image syntax with an absolute URL.
var (
	imgTagPattern  = regexp.MustCompile(`(?i)<img[^>]*src="([^"]+)"[^>]*>`)
	mdImagePattern = regexp.MustCompile(`(?i)!\[.*?\]\((https?://[^)]+)\)`)

	// resourcePattern matches internal platform URLs that need a secondary
	// API lookup before they can be fetched.
	resourcePattern = regexp.MustCompile(`/resources/(\d+)/`)
)

// ExtractImageURLs scans an HTML/Markdown-mixed body for embedded image
// URLs. Matches from both patterns are deduplicated; order follows first
// appearance per pattern but carries no meaning, since embedded images are
// downloaded independently and referenced by generated filenames.
func ExtractImageURLs(body string) []string {
	seen := make(map[string]struct{})
	var urls []string

	for _, pattern := range []*regexp.Regexp{imgTagPattern, mdImagePattern} {
		for _, match := range pattern.FindAllStringSubmatch(body, -1) {
			url := match[1]
			if _, ok := seen[url]; ok {
				continue
			}
			seen[url] = struct{}{}
			urls = append(urls, url)
		}
	}

	return urls
}

// LookupFunc resolves an asset ID to a fetchable URL through the API's
// secondary asset query. It reports false when the lookup fails or yields
// no URL; it never blocks the caller with an error.
type LookupFunc func(ctx context.Context, assetID string) (string, bool)

// Resolver turns raw asset references into final fetchable URLs.
type Resolver struct {
	lookup LookupFunc
}

// NewResolver creates a Resolver backed by the given secondary lookup.
func NewResolver(lookup LookupFunc) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve determines the final fetchable URL for an embedded image URL.
// URLs matching the internal resource pattern are resolved through the
// secondary lookup; when that yields nothing, the original URL is kept as a
// last resort since it may still be directly fetchable (e.g. pre-signed).
func (r *Resolver) Resolve(ctx context.Context, rawURL string) string {
	match := resourcePattern.FindStringSubmatch(rawURL)
	if match == nil {
		return rawURL
	}

	if resolved, ok := r.lookup(ctx, match[1]); ok {
		return resolved
	}

	return rawURL
}

// ResolveAsset picks the download URL for a direct attachment, preferring
// the pre-signed public URL over the authenticated one. Returns an empty
// string when the asset carries neither, in which case it is skipped.
func ResolveAsset(a domain.Asset) string {
	if a.PublicURL != "" {
		return a.PublicURL
	}
	return a.URL
}
