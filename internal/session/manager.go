package session

import (
	"context"
	"errors"
	"log"
	"time"

	"go-hiring-harvester/internal/browser"
)

// Driver is the part of the browser the session manager drives.
type Driver interface {
	Goto(url string) error
	Reload() error
	AddCookies(cookies []browser.Cookie) error
	Cookies() ([]browser.Cookie, error)
	WaitFor(selector string, timeout time.Duration) error
	Fill(selector, value string) error
	Click(selector string) error
}

// Store persists session state per origin.
type Store interface {
	Load(origin string) ([]browser.Cookie, error)
	Save(origin string, cookies []browser.Cookie) error
}

// Provider describes where and how to log in to one remote service.
type Provider struct {
	Origin        string
	LoginURL      string
	UsernameField string
	PasswordField string
	SubmitButton  string
	// SignedInMarker only renders for an authenticated user.
	SignedInMarker string

	SignedInTimeout time.Duration
	FormTimeout     time.Duration
	// LoginTimeout is longer to leave room for second-factor prompts.
	LoginTimeout time.Duration
}

var LinkedIn = Provider{
	Origin:          "https://www.linkedin.com",
	LoginURL:        "https://www.linkedin.com/login",
	UsernameField:   "#username",
	PasswordField:   "#password",
	SubmitButton:    "button[type='submit']",
	SignedInMarker:  "input.global-nav-typeahead__input",
	SignedInTimeout: 10 * time.Second,
	FormTimeout:     10 * time.Second,
	LoginTimeout:    20 * time.Second,
}

type Credentials struct {
	Username string
	Password string
}

// State is a working authenticated session for one origin.
type State struct {
	Origin  string
	Cookies []browser.Cookie
	Reused  bool
}

type Manager struct {
	provider Provider
	driver   Driver
	store    Store
	pause    func()
}

func NewManager(provider Provider, driver Driver, store Store) *Manager {
	return &Manager{
		provider: provider,
		driver:   driver,
		store:    store,
		pause:    func() { browser.RandomDelay(400, 1200) },
	}
}

// EnsureSession restores the persisted session when the signed-in marker confirms it
// is still valid, and otherwise runs the interactive login and persists the
// new state. Failures are returned as *AuthError.
func (m *Manager) EnsureSession(ctx context.Context, creds Credentials) (*State, error) {
	p := m.provider
	if err := m.driver.Goto(p.Origin); err != nil {
		return nil, classify("open origin", err)
	}

	cookies, err := m.store.Load(p.Origin)
	switch {
	case err == nil:
		if state, ok := m.restore(cookies); ok {
			log.Println("✅ Session reused successfully.")
			return state, nil
		}
		log.Println("🔁 Session expired. Performing fresh login.")
	case errors.Is(err, browser.ErrNoSession):
		log.Println("🔑 No existing session found. Performing fresh login.")
	default:
		log.Printf("⚠️ Could not load persisted session: %v. Performing fresh login.", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, &AuthError{Kind: AuthDriver, Step: "login", Err: err}
	}
	return m.login(ctx, creds)
}

func (m *Manager) restore(cookies []browser.Cookie) (*State, bool) {
	p := m.provider
	if err := m.driver.AddCookies(cookies); err != nil {
		log.Printf("⚠️ Could not apply persisted cookies: %v", err)
		return nil, false
	}
	if err := m.driver.Reload(); err != nil {
		log.Printf("⚠️ Reload after applying cookies failed: %v", err)
		return nil, false
	}
	if err := m.driver.WaitFor(p.SignedInMarker, p.SignedInTimeout); err != nil {
		return nil, false
	}
	return &State{Origin: p.Origin, Cookies: cookies, Reused: true}, true
}

func (m *Manager) login(ctx context.Context, creds Credentials) (*State, error) {
	p := m.provider
	if creds.Username == "" || creds.Password == "" {
		return nil, &AuthError{Kind: AuthNoCredentials, Step: "credentials"}
	}

	if err := m.driver.Goto(p.LoginURL); err != nil {
		return nil, classify("open login page", err)
	}
	if err := m.driver.WaitFor(p.UsernameField, p.FormTimeout); err != nil {
		return nil, classify("wait for login form", err)
	}
	if err := m.driver.Fill(p.UsernameField, creds.Username); err != nil {
		return nil, classify("fill username", err)
	}
	m.pause()
	if err := m.driver.Fill(p.PasswordField, creds.Password); err != nil {
		return nil, classify("fill password", err)
	}
	m.pause()
	if err := m.driver.Click(p.SubmitButton); err != nil {
		return nil, classify("submit credentials", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, &AuthError{Kind: AuthDriver, Step: "submit credentials", Err: err}
	}
	if err := m.driver.WaitFor(p.SignedInMarker, p.LoginTimeout); err != nil {
		return nil, classify("wait for authenticated page", err)
	}

	cookies, err := m.driver.Cookies()
	if err != nil {
		return nil, classify("capture cookies", err)
	}
	if err := m.store.Save(p.Origin, cookies); err != nil {
		log.Printf("⚠️ Login succeeded but cookies were not saved: %v", err)
	} else {
		log.Printf("🍪 Login successful. Saved %d cookies.", len(cookies))
	}
	return &State{Origin: p.Origin, Cookies: cookies}, nil
}

func classify(step string, err error) *AuthError {
	kind := AuthDriver
	switch {
	case errors.Is(err, browser.ErrTimeout):
		kind = AuthTimeout
	case errors.Is(err, browser.ErrElementMissing):
		kind = AuthMissingElement
	}
	return &AuthError{Kind: kind, Step: step, Err: err}
}
