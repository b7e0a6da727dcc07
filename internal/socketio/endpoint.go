package socketio

import (
	"fmt"
	"net/url"
	"strings"
)

const DefaultPath = "/socket.io/"

// ServerFromPage derives the Socket.IO server from the URL of the page the
// display belongs to: same host and port, http or https.
func ServerFromPage(pageURL string) (*url.URL, error) {
	page, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	if page.Host == "" {
		return nil, fmt.Errorf("page url %q has no host", pageURL)
	}

	var scheme string
	switch strings.ToLower(page.Scheme) {
	case "http", "ws":
		scheme = "http"
	case "https", "wss":
		scheme = "https"
	default:
		return nil, fmt.Errorf("page url %q: unsupported scheme %q", pageURL, page.Scheme)
	}

	return &url.URL{Scheme: scheme, Host: page.Host}, nil
}

// normalizePath returns path with exactly one leading slash and no trailing
// slash; the engine appends its own.
func normalizePath(path string) string {
	if path == "" {
		path = DefaultPath
	}
	return "/" + strings.Trim(path, "/")
}
