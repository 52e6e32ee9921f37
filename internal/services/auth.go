package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/sinewave/internal/client"
	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/session"
	"github.com/desertthunder/sinewave/internal/shared"
)

// AuthService logs users in and out and manages the stored session.
type AuthService struct {
	client  *client.Client
	cookies CookieClearer
	logger  *log.Logger
}

func NewAuthService(c *client.Client, cookies CookieClearer, logger *log.Logger) *AuthService {
	return &AuthService{client: c, cookies: cookies, logger: logger}
}

// Login exchanges credentials for a session and stores it.
func (s *AuthService) Login(ctx context.Context, username, password string) (models.User, error) {
	req := models.LoginRequest{Username: username, Password: password}
	if err := req.Validate(); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", shared.ErrMissingArgument, err)
	}

	resp, err := s.client.PostJSON(ctx, client.LoginPath, req)
	if err != nil {
		return models.User{}, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return models.User{}, fmt.Errorf("%w: invalid username or password", shared.ErrAuthFailed)
	}
	if err := resp.Err(); err != nil {
		return models.User{}, err
	}

	return s.store(ctx, resp, true)
}

// Register creates an account. When the backend also returns a token the user is logged in.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (models.User, bool, error) {
	if err := req.Validate(); err != nil {
		return models.User{}, false, fmt.Errorf("%w: %v", shared.ErrMissingArgument, err)
	}

	resp, err := s.client.PostJSON(ctx, client.RegisterPath, req)
	if err != nil {
		return models.User{}, false, err
	}
	if err := resp.Err(); err != nil {
		return models.User{}, false, err
	}

	var auth models.AuthResponse
	if err := resp.Decode(&auth); err != nil {
		return models.User{}, false, err
	}
	if auth.Token == "" {
		user, _ := models.ParseUser(auth.User)
		return user, false, nil
	}

	user, err := s.store(ctx, resp, false)
	return user, err == nil, err
}

func (s *AuthService) store(ctx context.Context, resp *client.Response, strict bool) (models.User, error) {
	var auth models.AuthResponse
	if err := resp.Decode(&auth); err != nil {
		return models.User{}, err
	}
	if err := auth.Validate(); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}
	if err := s.client.Session().Set(ctx, auth.Token, auth.User); err != nil {
		return models.User{}, err
	}

	user, err := models.ParseUser(auth.User)
	if err != nil && strict {
		return models.User{}, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}
	s.logger.Info("logged in", "username", user.Username)
	return user, nil
}

// Logout notifies the backend, then clears the session and cookies whatever the outcome.
func (s *AuthService) Logout(ctx context.Context) error {
	if _, err := s.client.Do(ctx, client.LogoutPath, client.Request{Method: http.MethodPost}); err != nil {
		s.logger.Warn("logout request failed", "err", err)
	}
	return s.clearLocal(ctx)
}

func (s *AuthService) clearLocal(ctx context.Context) error {
	var errs []error
	if err := s.client.Session().Clear(ctx); err != nil {
		errs = append(errs, err)
	}
	if s.cookies != nil {
		if err := s.cookies.Clear(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Refresh renews the session explicitly and returns the refreshed user.
func (s *AuthService) Refresh(ctx context.Context) (models.User, error) {
	if _, err := s.client.Renew(ctx); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	sess, ok, err := s.client.Session().Get(ctx)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, shared.ErrNotAuthenticated
	}
	return sess.Profile()
}

// Status describes the stored session.
type Status struct {
	LoggedIn  bool
	User      models.User
	Subject   string
	ExpiresAt *time.Time
	Expired   bool
}

// Status reports the stored session without contacting the backend.
//
// Expiry comes from the token's claims when it is a JWT.
func (s *AuthService) Status(ctx context.Context) (Status, error) {
	sess, ok, err := s.client.Session().Get(ctx)
	if err != nil {
		return Status{}, err
	}
	if !ok {
		return Status{}, nil
	}

	st := Status{LoggedIn: true}
	if user, err := sess.Profile(); err == nil {
		st.User = user
	}
	if claims, err := session.ParseClaims(sess.Token); err == nil {
		st.Subject = claims.Subject
		st.ExpiresAt = claims.ExpiresAt
		st.Expired = claims.Expired(time.Now())
	}
	return st, nil
}

// CurrentUser returns the stored user or [shared.ErrNotAuthenticated].
func (s *AuthService) CurrentUser(ctx context.Context) (models.User, error) {
	return currentUser(ctx, s.client)
}

func currentUser(ctx context.Context, c *client.Client) (models.User, error) {
	sess, ok, err := c.Session().Get(ctx)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, shared.ErrNotAuthenticated
	}
	return sess.Profile()
}
