package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hospitalops/portal-system/internal/core/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login exchanges credentials against the portal's login endpoint. It is the
// one unauthenticated call the client makes; the returned token feeds the
// session the TokenSource serves afterwards.
func Login(ctx context.Context, baseURL, email, password string) (string, *domain.User, error) {
	raw, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return "", nil, fmt.Errorf("login: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/auth/login", bytes.NewReader(raw))
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := (&http.Client{Timeout: defaultHTTPTimeout}).Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusOK:
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusNotFound:
		return "", nil, fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
	default:
		var er errorResponse
		_ = json.NewDecoder(res.Body).Decode(&er)
		if er.Error == "" {
			er.Error = res.Status
		}
		return "", nil, fmt.Errorf("login: %s", er.Error)
	}

	var out loginResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", nil, fmt.Errorf("login: decode: %w", err)
	}
	if out.Token == "" || out.User == nil {
		return "", nil, fmt.Errorf("login: incomplete response")
	}
	return out.Token, out.User, nil
}
