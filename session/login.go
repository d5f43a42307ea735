package session

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Custom errors for the login sequence.
var (
	// ErrInvalidCredentials means the identity provider rejected the
	// username/password submission.
	ErrInvalidCredentials = errors.New("login rejected, check credentials")

	// ErrLoginCallback means the login sequence completed but the
	// landing page shows no signed-in session.
	ErrLoginCallback = errors.New("login callback failed, session not authenticated")
)

// Auth selects how the session is established: anonymously or via
// the subscriber login sequence.
type Auth interface {
	establish(s *Session) error
}

// Anonymous bootstraps without credentials. Paywalled article bodies
// stay truncated but the edition index is public.
type Anonymous struct{}

func (Anonymous) establish(s *Session) error {
	return s.cacheLanding()
}

// Credentials bootstraps through the Dow Jones SSO login form.
type Credentials struct {
	Username string
	Password string
}

// auth0Client identifies the login client to the identity provider,
// base64 of the JSON descriptor the web frontend sends.
func auth0Client() string {
	return base64.StdEncoding.EncodeToString([]byte(`{"name":"auth0.js","version":"7.0.3"}`))
}

// establish runs the four-step login: open the initiation URL, lift
// the SSO query parameters off the redirect target, post the
// credentials, then replay the returned callback form. The landing
// page is fetched last and must carry a logout marker.
func (c Credentials) establish(s *Session) error {
	initReq, err := http.NewRequest(http.MethodGet, s.endpoints.LoginInit, nil)
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}
	initReq.Header.Set("User-Agent", s.userAgent)

	initResp, err := s.client.Do(initReq)
	if err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}
	io.Copy(io.Discard, initResp.Body)
	initResp.Body.Close()

	// The initiation URL redirects to the SSO login page; the client
	// parameters ride in its query string.
	query := initResp.Request.URL.Query()

	form := url.Values{
		"username":  {c.Username},
		"password":  {c.Password},
		"client_id": {query.Get("client")},
		"sso":       {"true"},
		"tenant":    {"sso"},
		"_intstate": {"deprecated"},
	}
	for _, k := range []string{"scope", "connection", "nonce", "state", "ui_locales", "ns", "protocol", "redirect_uri"} {
		if v := query.Get(k); v != "" {
			form.Set(k, v)
		}
	}

	loginReq, err := http.NewRequest(http.MethodPost, s.endpoints.Login, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}
	loginReq.Header.Set("User-Agent", s.userAgent)
	loginReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	loginReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	loginReq.Header.Set("Accept-Language", "en-US,en;q=0.8")
	loginReq.Header.Set("Auth0-Client", auth0Client())
	loginReq.Header.Set("X-HTTP-Method-Override", "POST")
	loginReq.Header.Set("X-Requested-With", "XMLHttpRequest")
	loginReq.Header.Set("X-Remote-User", c.Username)

	loginResp, err := s.client.Do(loginReq)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	body, readErr := io.ReadAll(loginResp.Body)
	loginResp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("failed to read login response: %w", readErr)
	}
	if loginResp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w (HTTP %d): %s", ErrInvalidCredentials, loginResp.StatusCode, snippet(body))
	}

	callbackURL, callbackForm, err := parseCallbackForm(body, loginResp.Request.URL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if callbackURL == "" {
		callbackURL = s.endpoints.LoginCallback
	}

	cbReq, err := http.NewRequest(http.MethodPost, callbackURL, strings.NewReader(callbackForm.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create callback request: %w", err)
	}
	cbReq.Header.Set("User-Agent", s.userAgent)
	cbReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	cbResp, err := s.client.Do(cbReq)
	if err != nil {
		return fmt.Errorf("login callback request failed: %w", err)
	}
	io.Copy(io.Discard, cbResp.Body)
	cbResp.Body.Close()

	if err := s.cacheLanding(); err != nil {
		return err
	}
	if !bytes.Contains(bytes.ToLower(s.landing), []byte("logout")) {
		return ErrLoginCallback
	}
	return nil
}

// parseCallbackForm extracts the action URL and hidden fields from
// the HTML form the login endpoint returns.
func parseCallbackForm(body []byte, base *url.URL) (string, url.Values, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse login response: %w", err)
	}

	form := doc.Find("form").First()
	if form.Length() == 0 {
		return "", nil, fmt.Errorf("no callback form in login response: %s", snippet(body))
	}

	action, _ := form.Attr("action")
	if action != "" && base != nil {
		if ref, err := url.Parse(action); err == nil {
			action = base.ResolveReference(ref).String()
		}
	}

	values := url.Values{}
	form.Find("input").Each(func(_ int, input *goquery.Selection) {
		name, ok := input.Attr("name")
		if !ok || name == "" {
			return
		}
		value, _ := input.Attr("value")
		values.Set(name, value)
	})

	return action, values, nil
}

// snippet bounds a response body for inclusion in error messages.
func snippet(body []byte) string {
	const max = 400
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
