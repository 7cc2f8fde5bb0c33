package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-hiring-harvester/internal/browser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDriver treats the signed-in marker as present once authenticated is true.
type fakeDriver struct {
	provider      Provider
	authenticated bool
	validCookies  bool
	formMissing   bool
	rejectLogin   bool
	calls         []string
	applied       []browser.Cookie
}

func (d *fakeDriver) Goto(url string) error {
	d.calls = append(d.calls, "goto "+url)
	return nil
}

func (d *fakeDriver) Reload() error {
	d.calls = append(d.calls, "reload")
	if d.validCookies && len(d.applied) > 0 {
		d.authenticated = true
	}
	return nil
}

func (d *fakeDriver) AddCookies(cookies []browser.Cookie) error {
	d.calls = append(d.calls, "add cookies")
	d.applied = cookies
	return nil
}

func (d *fakeDriver) Cookies() ([]browser.Cookie, error) {
	return []browser.Cookie{{Name: "li_at", Value: "fresh", Domain: ".linkedin.com"}}, nil
}

func (d *fakeDriver) WaitFor(selector string, timeout time.Duration) error {
	d.calls = append(d.calls, "wait "+selector)
	switch selector {
	case d.provider.SignedInMarker:
		if d.authenticated {
			return nil
		}
	case d.provider.UsernameField:
		if !d.formMissing {
			return nil
		}
	}
	return browser.ErrTimeout
}

func (d *fakeDriver) Fill(selector, value string) error {
	d.calls = append(d.calls, "fill "+selector)
	return nil
}

func (d *fakeDriver) Click(selector string) error {
	d.calls = append(d.calls, "click "+selector)
	if !d.rejectLogin {
		d.authenticated = true
	}
	return nil
}

func (d *fakeDriver) loggedIn() bool {
	for _, c := range d.calls {
		if c == "goto "+d.provider.LoginURL {
			return true
		}
	}
	return false
}

type memoryStore struct {
	cookies map[string][]browser.Cookie
	saves   int
}

func (s *memoryStore) Load(origin string) ([]browser.Cookie, error) {
	c, ok := s.cookies[origin]
	if !ok {
		return nil, browser.ErrNoSession
	}
	return c, nil
}

func (s *memoryStore) Save(origin string, cookies []browser.Cookie) error {
	if s.cookies == nil {
		s.cookies = map[string][]browser.Cookie{}
	}
	s.cookies[origin] = cookies
	s.saves++
	return nil
}

func newTestManager(d *fakeDriver, s *memoryStore) *Manager {
	d.provider = LinkedIn
	m := NewManager(LinkedIn, d, s)
	m.pause = func() {}
	return m
}

var persisted = []browser.Cookie{{Name: "li_at", Value: "stored", Domain: ".linkedin.com"}}

func TestEnsureSession_ReusesValidSession(t *testing.T) {
	d := &fakeDriver{validCookies: true}
	s := &memoryStore{cookies: map[string][]browser.Cookie{LinkedIn.Origin: persisted}}

	state, err := newTestManager(d, s).EnsureSession(context.Background(), Credentials{Username: "u", Password: "p"})

	require.NoError(t, err)
	assert.True(t, state.Reused)
	assert.Equal(t, persisted, state.Cookies)
	assert.False(t, d.loggedIn(), "valid session must not trigger the login flow")
	assert.Equal(t, 0, s.saves)
	assert.Equal(t, []string{"goto " + LinkedIn.Origin, "add cookies", "reload", "wait " + LinkedIn.SignedInMarker}, d.calls)
}

func TestEnsureSession_ExpiredSessionLogsIn(t *testing.T) {
	d := &fakeDriver{validCookies: false}
	s := &memoryStore{cookies: map[string][]browser.Cookie{LinkedIn.Origin: persisted}}

	state, err := newTestManager(d, s).EnsureSession(context.Background(), Credentials{Username: "u", Password: "p"})

	require.NoError(t, err)
	assert.False(t, state.Reused)
	assert.True(t, d.loggedIn())
	assert.Equal(t, 1, s.saves)
	assert.Equal(t, "fresh", s.cookies[LinkedIn.Origin][0].Value)
}

func TestEnsureSession_NoPersistedState(t *testing.T) {
	d := &fakeDriver{}
	s := &memoryStore{}

	state, err := newTestManager(d, s).EnsureSession(context.Background(), Credentials{Username: "u", Password: "p"})

	require.NoError(t, err)
	assert.True(t, d.loggedIn())
	assert.NotContains(t, d.calls, "add cookies")
	assert.Equal(t, LinkedIn.Origin, state.Origin)
}

func TestEnsureSession_Failures(t *testing.T) {
	tests := []struct {
		name   string
		driver *fakeDriver
		creds  Credentials
		kind   AuthErrorKind
		step   string
	}{
		{
			name:   "login rejected",
			driver: &fakeDriver{rejectLogin: true},
			creds:  Credentials{Username: "u", Password: "p"},
			kind:   AuthTimeout,
			step:   "wait for authenticated page",
		},
		{
			name:   "login form never renders",
			driver: &fakeDriver{formMissing: true},
			creds:  Credentials{Username: "u", Password: "p"},
			kind:   AuthTimeout,
			step:   "wait for login form",
		},
		{
			name:   "missing credentials",
			driver: &fakeDriver{},
			kind:   AuthNoCredentials,
			step:   "credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &memoryStore{}
			state, err := newTestManager(tt.driver, s).EnsureSession(context.Background(), tt.creds)

			assert.Nil(t, state)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrAuthenticationFailed))

			var authErr *AuthError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, tt.kind, authErr.Kind)
			assert.Equal(t, tt.step, authErr.Step)
			assert.Equal(t, 0, s.saves)
		})
	}
}

func TestClassify_PreservesCause(t *testing.T) {
	missing := classify("fill username", errors.Join(browser.ErrElementMissing, errors.New("#username")))
	assert.Equal(t, AuthMissingElement, missing.Kind)
	assert.ErrorIs(t, missing, browser.ErrElementMissing)

	driver := classify("open origin", errors.New("target closed"))
	assert.Equal(t, AuthDriver, driver.Kind)
}
