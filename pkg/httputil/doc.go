// Package httputil fetches remote label assets over HTTP.
//
// # Overview
//
// Logos and image elements may reference http(s) URLs. This package
// provides the plumbing used by the asset resolver:
//
//   - [Client]: GET with retry and an on-disk response cache
//   - [Cache]: file-based cache of response bodies with a TTL
//   - [Retry]: retry with exponential backoff for transient failures
//
// # Caching
//
// [Cache] stores entries under ~/.cache/labelsheet/http/ by default. Keys are
// hashed with SHA-256, so URLs can be used as keys directly:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	client := httputil.NewClient(cache, nil)
//	data, err := client.Fetch(ctx, "https://example.com/logo.png")
//
// # Retry
//
// Only errors wrapped in [RetryableError] are retried. [Client] wraps
// connection failures and 5xx responses; a 404 fails immediately with
// [ErrNotFound].
//
// The cache can be cleared via `labelsheet cache clear` or by deleting the
// cache directory.
package httputil
