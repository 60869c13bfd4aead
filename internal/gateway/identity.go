package gateway

import (
	"context"
	"net/http"
	"strings"

	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
)

// IdentityUser is the account record returned by the identity API.
type IdentityUser struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	DisplayName *string `json:"display_name,omitempty"`
}

type federatedSignInRequest struct {
	Provider string `json:"provider"`
	IDToken  string `json:"id_token"`
}

// SignIn authenticates an email/password pair against the identity API.
func (c *Client) SignIn(ctx context.Context, email, password string) (*IdentityUser, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}
	var user IdentityUser
	err := c.do(ctx, "sign_in", http.MethodPost, "/v1/identity/sign-in", signInRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SignUp registers a new account with the identity API.
func (c *Client) SignUp(ctx context.Context, email, password string, displayName *string) (*IdentityUser, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}
	var user IdentityUser
	err := c.do(ctx, "sign_up", http.MethodPost, "/v1/identity/sign-up", signUpRequest{
		Email:       strings.TrimSpace(email),
		Password:    password,
		DisplayName: displayName,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FederatedSignIn exchanges a provider-issued token for an identity account.
func (c *Client) FederatedSignIn(ctx context.Context, provider, idToken string) (*IdentityUser, error) {
	if strings.TrimSpace(provider) == "" || strings.TrimSpace(idToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider and id token are required")
	}
	var user IdentityUser
	err := c.do(ctx, "federated_sign_in", http.MethodPost, "/v1/identity/federated", federatedSignInRequest{
		Provider: strings.TrimSpace(provider),
		IDToken:  strings.TrimSpace(idToken),
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
