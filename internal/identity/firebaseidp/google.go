// File: internal/identity/firebaseidp/google.go
package firebaseidp

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"barberlink_backend/internal/identity"
	"barberlink_backend/internal/platform/crypto"
)

// CodeGranter completes the interactive half of a federated sign-in: it
// takes the authorization URL the user must visit and returns the
// authorization code from the provider callback. The granter must verify
// that the callback carried the expected state value.
type CodeGranter interface {
	GrantCode(ctx context.Context, authURL, state string) (string, error)
}

// SignInFederated performs an OAuth authorization-code sign-in with the given
// provider and exchanges the resulting ID token for a Firebase session.
func (c *Client) SignInFederated(ctx context.Context, kind identity.ProviderKind) (*identity.Session, error) {
	if kind != identity.ProviderGoogle {
		return nil, identity.NewProviderError("OPERATION_NOT_ALLOWED",
			fmt.Errorf("federated provider %q is not supported", kind))
	}
	if c.codeGranter == nil {
		return nil, identity.NewProviderError(identity.CodeUnsupportedPlatform,
			fmt.Errorf("no authorization-code granter configured for this runtime"))
	}

	oauthCfg := &oauth2.Config{
		ClientID:     c.cfg.GoogleClientID,
		ClientSecret: c.cfg.GoogleClientSecret,
		RedirectURL:  c.cfg.GoogleRedirectURI,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}

	state, err := crypto.GenerateSecureRandomString(16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate OAuth state: %w", err)
	}

	authURL := oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
	code, err := c.codeGranter.GrantCode(ctx, authURL, state)
	if err != nil {
		return nil, identity.NewProviderError("INVALID_IDP_RESPONSE",
			fmt.Errorf("authorization code grant failed: %w", err))
	}

	token, err := oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, identity.NewProviderError("INVALID_IDP_RESPONSE",
			fmt.Errorf("authorization code exchange failed: %w", err))
	}

	rawIDToken, _ := token.Extra("id_token").(string)
	if rawIDToken == "" {
		return nil, identity.NewProviderError("INVALID_IDP_RESPONSE",
			fmt.Errorf("google token response carried no id_token"))
	}

	var resp tokenResponse
	err = c.call(ctx, "signInWithIdp", map[string]interface{}{
		"postBody":            fmt.Sprintf("id_token=%s&providerId=%s", rawIDToken, identity.ProviderGoogle),
		"requestUri":          c.cfg.GoogleRedirectURI,
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	sess := c.sessionFromToken(ctx, &resp)
	c.logger.Info("Federated sign-in succeeded",
		zap.String("provider", string(kind)),
		zap.String("subjectID", sess.SubjectID),
	)
	c.emit(sess)
	return sess, nil
}
