package player

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// SanitizeTarget validates a media target before it reaches loadfile.
// http(s) URLs pass unchanged; anything without a scheme is treated as a local path.
func SanitizeTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// loadfile would take it for an option
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	abs, err := filepath.Abs(l)
	if err != nil {
		return filepath.Clean(l), nil
	}
	return abs, nil
}

// SanitizeTitle flattens a title onto one line for force-media-title.
func SanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
