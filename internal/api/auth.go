package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/nhatpm-sg/medical/internal/session"
)

// AuthService signs users in and out. Login and register are the only two
// endpoints that do not answer with the standard envelope: they return
// {token, user} directly, and on success the pair is saved as the session.
type AuthService struct {
	client *Client
	store  session.Store
}

func NewAuthService(client *Client, store session.Store) *AuthService {
	return &AuthService{client: client, store: store}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string        `json:"token"`
	User  *session.User `json:"user"`
}

// Login authenticates with email and password and stores the session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*session.User, error) {
	resp, err := s.client.Post(ctx, "/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return s.saveSession(ctx, resp)
}

// Register creates an account and stores the session it comes back with.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*session.User, error) {
	resp, err := s.client.Post(ctx, "/register", registerRequest{Username: username, Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return s.saveSession(ctx, resp)
}

// Logout discards the session. It is purely local: the portal has no
// server-side logout endpoint, tokens simply age out.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// CurrentUser returns the signed-in user, if any.
func (s *AuthService) CurrentUser(ctx context.Context) (*session.User, bool) {
	return s.store.CurrentUser(ctx)
}

// IsAuthenticated reports whether a token is stored. It says nothing about
// whether the server still accepts it.
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	return s.store.HasToken(ctx)
}

func (s *AuthService) saveSession(ctx context.Context, resp *http.Response) (*session.User, error) {
	payload, err := decodeAuth(resp)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, payload.Token, payload.User); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return payload.User, nil
}

func decodeAuth(resp *http.Response) (*authResponse, error) {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyStatus(resp.StatusCode, body)
	}

	if !isJSONContentType(resp.Header.Get("Content-Type")) {
		return nil, malformedError(msgNotJSON, nil)
	}

	var payload authResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, malformedError(msgInvalidJSON, err)
	}
	if payload.Token == "" || payload.User == nil {
		return nil, malformedError(msgInvalidJSON, nil)
	}
	return &payload, nil
}
