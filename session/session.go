// Package session establishes the authenticated (or anonymous) HTTP
// session used for one recipe run: preset region/consent cookies, an
// optional SSO login, and a cached copy of the print-edition landing
// page.
package session

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultUserAgent mimics a desktop browser; the site serves reduced
// markup to unknown agents.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Endpoints holds every URL the session layer touches. Tests point
// these at local servers.
type Endpoints struct {
	Landing       string
	LoginInit     string
	Login         string
	LoginCallback string
}

// DefaultEndpoints returns the production URLs.
func DefaultEndpoints() Endpoints {
	landing := "https://www.wsj.com/print-edition/today"
	return Endpoints{
		Landing:       landing,
		LoginInit:     "https://accounts.wsj.com/login?target=" + url.QueryEscape(landing),
		Login:         "https://sso.accounts.dowjones.com/usernamepassword/login",
		LoginCallback: "https://sso.accounts.dowjones.com/login/callback",
	}
}

// Session wraps an http.Client with a cookie jar and caches the raw
// landing-page body after Bootstrap. The cache is written once and
// read many times; discovery must not re-fetch the landing page.
type Session struct {
	client    *http.Client
	endpoints Endpoints
	auth      Auth
	userAgent string
	landing   []byte
}

// New creates a session with a fresh cookie jar and presets the
// region and consent cookies that bypass geo/consent interstitials.
func New(endpoints Endpoints, auth Auth) (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	landingURL, err := url.Parse(endpoints.Landing)
	if err != nil {
		return nil, fmt.Errorf("invalid landing URL: %w", err)
	}

	jar.SetCookies(landingURL, []*http.Cookie{
		{Name: "wsjregion", Value: "na,us", Path: "/"},
		{Name: "gdprApplies", Value: "false", Path: "/"},
		{Name: "ccpaApplies", Value: "false", Path: "/"},
	})

	if auth == nil {
		auth = Anonymous{}
	}

	return &Session{
		client: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		endpoints: endpoints,
		auth:      auth,
		userAgent: DefaultUserAgent,
	}, nil
}

// Bootstrap establishes the session and caches the landing page.
// With credentials this runs the full login sequence first; failures
// there are fatal to the run.
func (s *Session) Bootstrap() error {
	return s.auth.establish(s)
}

// LandingURL returns the landing page URL used as the base for
// relative links.
func (s *Session) LandingURL() string {
	return s.endpoints.Landing
}

// LandingDocument parses the cached landing page body.
func (s *Session) LandingDocument() (*goquery.Document, error) {
	if s.landing == nil {
		return nil, fmt.Errorf("session not bootstrapped")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(s.landing))
	if err != nil {
		return nil, fmt.Errorf("failed to parse landing page: %w", err)
	}
	return doc, nil
}

// Get fetches a URL with the session's cookies and headers and
// returns the response body. Non-200 statuses are errors.
func (s *Session) Get(pageURL string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error fetching %s: %d %s", pageURL, resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// FetchDocument fetches and parses a page.
func (s *Session) FetchDocument(pageURL string) (*goquery.Document, error) {
	body, err := s.Get(pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", pageURL, err)
	}
	return doc, nil
}

// cacheLanding fetches the landing page once and stores the raw body.
func (s *Session) cacheLanding() error {
	body, err := s.Get(s.endpoints.Landing)
	if err != nil {
		return fmt.Errorf("failed to fetch landing page: %w", err)
	}
	s.landing = body
	return nil
}
