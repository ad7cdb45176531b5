package linkmeta

import (
	"errors"
	"net/url"
	"strings"
)

var ErrInvalidURL = errors.New("url must be an absolute http or https url")

// Normalize trims the url and checks that it is an absolute http(s) url with
// a host.
func Normalize(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, ErrInvalidURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrInvalidURL
	}
	if u.Hostname() == "" {
		return nil, ErrInvalidURL
	}
	u.Host = strings.ToLower(u.Host)
	return u, nil
}

// BaseURL returns scheme://host, the key a Source is deduplicated on.
func BaseURL(raw string) (string, error) {
	u, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	return u.Scheme + "://" + u.Host, nil
}

// DefaultLogo is the conventional favicon location for a base url.
func DefaultLogo(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/favicon.ico"
}
