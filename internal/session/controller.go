package session

import (
	"context"
	"sync"

	"github.com/Iron-Ham/fintrack/internal/errors"
	"github.com/Iron-Ham/fintrack/internal/logging"
	"github.com/Iron-Ham/fintrack/internal/models"
	"github.com/Iron-Ham/fintrack/internal/tokenstore"
)

// AuthService is the subset of the auth API the controller drives.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (*models.MessageResponse, error)
}

// Deps are the collaborators of a Controller.
type Deps struct {
	Auth  AuthService
	Store tokenstore.Store
	// Logger defaults to a no-op logger.
	Logger *logging.Logger
	// LandingPage is the page shown after boot and login. Defaults to
	// PageDashboard.
	LandingPage Page
}

// Controller holds the session state machine. It is safe for concurrent
// use; observers registered with OnChange are called after every
// transition, outside the controller's lock.
type Controller struct {
	auth    AuthService
	store   tokenstore.Store
	logger  *logging.Logger
	landing Page

	mu        sync.Mutex
	state     State
	observers []func(State)
}

// New creates a Controller in the Booting state.
func New(deps Deps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	landing := deps.LandingPage
	if landing == "" {
		landing = PageDashboard
	}
	return &Controller{
		auth:    deps.Auth,
		store:   deps.Store,
		logger:  logger.WithComponent("session"),
		landing: landing,
		state:   Booting{},
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// User returns the signed-in user, if any.
func (c *Controller) User() (models.User, bool) {
	if s, ok := c.State().(Authenticated); ok {
		return s.User, true
	}
	return models.User{}, false
}

// OnChange registers fn to be called with the new state after each
// transition.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

func (c *Controller) transition(next State) {
	c.mu.Lock()
	prev := c.state
	c.state = next
	observers := append([]func(State){}, c.observers...)
	c.mu.Unlock()

	c.logger.Debug("session transition", "from", prev.String(), "to", next.String())
	for _, fn := range observers {
		fn(next)
	}
}

// Boot resolves the initial state from the token store. A stored token is
// verified with a profile fetch; any failure clears the store.
func (c *Controller) Boot(ctx context.Context) State {
	_, ok, err := c.store.Read(ctx)
	if err != nil {
		c.logger.Error("failed to read stored tokens", "error", err.Error())
		c.clearStore(ctx)
		c.transition(Unauthenticated{Form: FormLogin})
		return c.State()
	}
	if !ok {
		c.transition(Unauthenticated{Form: FormLogin})
		return c.State()
	}

	user, err := c.auth.Profile(ctx)
	if err != nil {
		c.logger.Info("stored session rejected", "error", errors.Reduce(err))
		c.clearStore(ctx)
		c.transition(Unauthenticated{Form: FormLogin})
		return c.State()
	}

	c.logger.Info("session restored", "user_id", user.ID)
	c.transition(Authenticated{User: *user, Page: c.landing})
	return c.State()
}

// Login signs in with email and password. Tokens are persisted before the
// state becomes Authenticated.
func (c *Controller) Login(ctx context.Context, req models.LoginRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	resp, err := c.auth.Login(ctx, req)
	if err != nil {
		c.logger.Info("login failed", "error", errors.Reduce(err))
		return err
	}
	return c.establish(ctx, resp)
}

// Register creates an account and signs in. Local checks run first; a local
// failure makes no network call.
func (c *Controller) Register(ctx context.Context, req models.RegisterRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	resp, err := c.auth.Register(ctx, req)
	if err != nil {
		c.logger.Info("registration failed", "error", errors.Reduce(err))
		return err
	}
	return c.establish(ctx, resp)
}

func (c *Controller) establish(ctx context.Context, resp *models.AuthResponse) error {
	if err := c.store.Save(ctx, resp.Tokens); err != nil {
		c.logger.Error("failed to save tokens", "error", err.Error())
		return errors.Wrap(err, "save tokens")
	}
	c.logger.Info("signed in", "user_id", resp.User.ID)
	c.transition(Authenticated{User: resp.User, Page: c.landing})
	return nil
}

// SwitchForm toggles between the login and register forms. It does nothing
// unless the session is Unauthenticated.
func (c *Controller) SwitchForm(form Form) {
	if _, ok := c.State().(Unauthenticated); !ok {
		return
	}
	c.transition(Unauthenticated{Form: form})
}

// Navigate selects the page shown to an authenticated user. Page names are
// matched case-insensitively.
func (c *Controller) Navigate(name Page) error {
	page, err := ParsePage(string(name))
	if err != nil {
		return err
	}
	s, ok := c.State().(Authenticated)
	if !ok {
		return errors.ErrNotAuthenticated
	}
	if s.Page == page {
		return nil
	}
	s.Page = page
	c.transition(s)
	return nil
}

// Logout revokes the refresh token on a best-effort basis, then always
// clears the store and returns to the login form.
func (c *Controller) Logout(ctx context.Context) {
	tokens, ok, err := c.store.Read(ctx)
	if err != nil {
		c.logger.Warn("failed to read tokens for logout", "error", err.Error())
	}
	if ok && tokens.Refresh != "" {
		if err := c.auth.Logout(ctx, tokens.Refresh); err != nil {
			c.logger.Warn("logout request failed", "error", errors.Reduce(err))
		}
	}
	c.clearStore(ctx)
	c.logger.Info("signed out")
	c.transition(Unauthenticated{Form: FormLogin})
}

// UpdateProfile saves profile edits. The held user is replaced only when the
// server accepts them.
func (c *Controller) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (models.User, error) {
	s, ok := c.State().(Authenticated)
	if !ok {
		return models.User{}, errors.ErrNotAuthenticated
	}
	user, err := c.auth.UpdateProfile(ctx, upd)
	if err != nil {
		c.HandleUnauthorized(err)
		return s.User, err
	}
	// The page may have changed during the round-trip.
	if cur, ok := c.State().(Authenticated); ok {
		cur.User = *user
		c.transition(cur)
	}
	return *user, nil
}

// ChangePassword changes the account password and returns the server's
// acknowledgement.
func (c *Controller) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (string, error) {
	if _, ok := c.State().(Authenticated); !ok {
		return "", errors.ErrNotAuthenticated
	}
	if err := req.Validate(); err != nil {
		return "", err
	}
	resp, err := c.auth.ChangePassword(ctx, req)
	if err != nil {
		c.HandleUnauthorized(err)
		return "", err
	}
	return resp.Message, nil
}

// HandleUnauthorized moves an authenticated session to the login form when
// err is a 401. The API client has already cleared the store by then. It
// reports whether a transition happened.
func (c *Controller) HandleUnauthorized(err error) bool {
	if !errors.IsUnauthorized(err) {
		return false
	}
	if _, ok := c.State().(Authenticated); !ok {
		return false
	}
	c.logger.Info("session expired")
	c.transition(Unauthenticated{Form: FormLogin})
	return true
}

func (c *Controller) clearStore(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Error("failed to clear tokens", "error", err.Error())
	}
}
