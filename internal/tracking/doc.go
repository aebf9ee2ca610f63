// Package tracking records email open events from the tracking pixel.
//
// The pixel endpoint is outward-facing and hit by mail clients, proxies,
// and security scanners, so the handler always serves the image no
// matter what happens internally. Event recording is best effort:
// an unknown token, a duplicate within the dedup window, or a storage
// failure never changes the HTTP response.
package tracking
