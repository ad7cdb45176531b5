package linkmeta

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	DefaultUserAgent = "InspectBot/1.0 (+https://inspect.app)"
	defaultMaxBytes  = 1 << 20
)

var ErrDisallowed = errors.New("fetch disallowed by robots.txt")

// Meta is the best-effort page metadata used when saving a link.
type Meta struct {
	Title   string
	LogoURI string
}

type FetcherConfig struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
	// RPS and Burst bound requests per host; zero RPS disables limiting.
	RPS   float64
	Burst int
	// AllowPrivateNetworks lifts the loopback/private address guard. Only
	// tests against local servers set it.
	AllowPrivateNetworks bool
}

type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *RobotsChecker
	limiter    *Limiter
}

func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if strings.TrimSpace(cfg.UserAgent) == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	transport := newTransport(cfg.Timeout, cfg.AllowPrivateNetworks)
	f := &Fetcher{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
		robots:    NewRobotsChecker(cfg.UserAgent, &http.Client{Timeout: cfg.Timeout, Transport: transport}),
	}
	if cfg.RPS > 0 {
		f.limiter = NewLimiter(cfg.RPS, cfg.Burst)
	}
	return f
}

// Fetch reads the page title and icon. LogoURI falls back to the host's
// favicon when the page declares none.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Meta, error) {
	u, err := Normalize(rawURL)
	if err != nil {
		return Meta{}, err
	}
	base := u.Scheme + "://" + u.Host
	meta := Meta{LogoURI: DefaultLogo(base)}

	if !f.robots.Allowed(ctx, u.String()) {
		return meta, ErrDisallowed
	}
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, u.Host); err != nil {
			return meta, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return meta, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return meta, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return meta, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	title, icon := parseHead(io.LimitReader(resp.Body, f.maxBytes))
	meta.Title = title
	if icon != "" {
		if ref, err := url.Parse(icon); err == nil {
			meta.LogoURI = resp.Request.URL.ResolveReference(ref).String()
		}
	}
	return meta, nil
}

// parseHead returns the first <title> text and the first icon href.
func parseHead(r io.Reader) (title, icon string) {
	z := html.NewTokenizer(r)
	inTitle := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			return cleanText(title), icon
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.Data {
			case "title":
				inTitle = title == ""
			case "link":
				if icon == "" && isIconLink(tok) {
					icon = attr(tok, "href")
				}
			case "body":
				if title != "" {
					return cleanText(title), icon
				}
			}
		case html.TextToken:
			if inTitle {
				title += string(z.Text())
			}
		case html.EndTagToken:
			tok := z.Token()
			if tok.Data == "title" {
				inTitle = false
			}
			if tok.Data == "head" && title != "" {
				return cleanText(title), icon
			}
		}
	}
}

func isIconLink(tok html.Token) bool {
	for _, rel := range strings.Fields(strings.ToLower(attr(tok, "rel"))) {
		if rel == "icon" {
			return true
		}
	}
	return false
}

func attr(tok html.Token, name string) string {
	for _, a := range tok.Attr {
		if a.Key == name {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
