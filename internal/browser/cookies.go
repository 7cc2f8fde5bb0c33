package browser

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// ErrNoSession is returned by SessionStore.Load when nothing was persisted
// for the origin yet.
var ErrNoSession = errors.New("no persisted session")

// Cookie struct represents a browser cookie from JSON file
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite"`
}

func (c Cookie) ToPlaywright() playwright.OptionalCookie {
	pwCookie := playwright.OptionalCookie{
		Name:   c.Name,
		Value:  c.Value,
		Domain: playwright.String(c.Domain),
		Path:   playwright.String(c.Path),
	}
	if c.Path == "" {
		pwCookie.Path = playwright.String("/")
	}

	if c.Expires > 0 {
		pwCookie.Expires = playwright.Float(c.Expires)
	}

	if c.HTTPOnly {
		pwCookie.HttpOnly = playwright.Bool(true)
	}

	if c.Secure {
		pwCookie.Secure = playwright.Bool(true)
	}

	switch c.SameSite {
	case "Lax":
		pwCookie.SameSite = playwright.SameSiteAttributeLax
	case "Strict":
		pwCookie.SameSite = playwright.SameSiteAttributeStrict
	case "None":
		pwCookie.SameSite = playwright.SameSiteAttributeNone
	}

	return pwCookie
}

// CookieFromPlaywright converts a cookie read back from a browser context.
func CookieFromPlaywright(c playwright.Cookie) Cookie {
	cookie := Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Expires:  c.Expires,
		HTTPOnly: c.HttpOnly,
		Secure:   c.Secure,
	}
	if c.SameSite != nil {
		cookie.SameSite = string(*c.SameSite)
	}
	return cookie
}

// SessionStore persists one cookie jar per origin as JSON files under dir.
type SessionStore struct {
	dir string
}

func NewSessionStore(dir string) *SessionStore {
	return &SessionStore{dir: dir}
}

// Path returns the file backing the given origin.
func (s *SessionStore) Path(origin string) string {
	host := originHost(origin)
	name := strings.ReplaceAll(strings.TrimPrefix(host, "www."), ".", "-")
	return filepath.Join(s.dir, fmt.Sprintf("cookies-%s.json", name))
}

// Load reads the cookies persisted for origin. Cookies saved without a
// domain are bound to the origin's registrable domain.
func (s *SessionStore) Load(origin string) ([]Cookie, error) {
	data, err := os.ReadFile(s.Path(origin))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.Path(origin), err)
	}
	if len(cookies) == 0 {
		return nil, ErrNoSession
	}

	domain := "." + strings.TrimPrefix(originHost(origin), "www.")
	for i := range cookies {
		if cookies[i].Domain == "" {
			cookies[i].Domain = domain
		}
	}
	return cookies, nil
}

// Save overwrites the cookies persisted for origin.
func (s *SessionStore) Save(origin string, cookies []Cookie) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("could not create cookies directory: %w", err)
	}

	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cookies: %w", err)
	}

	path := s.Path(origin)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write cookies: %w", err)
	}
	return os.Rename(tmp, path)
}

func originHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return strings.Trim(origin, "/")
	}
	return u.Hostname()
}
