package security

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jonwraymond/proxykit/audit"
)

// TokenConfig configures token verification.
type TokenConfig struct {
	// Issuer is the expected token issuer (iss claim). Empty skips the check.
	Issuer string

	// Audience is the expected token audience (aud claim). Empty skips the
	// check.
	Audience string
}

// TokenVerifier validates HMAC-signed JWTs and extracts the subject claim
// as the login identity.
type TokenVerifier struct {
	config TokenConfig
	key    []byte
}

// NewTokenVerifier creates a verifier for tokens signed with the given
// HMAC key.
func NewTokenVerifier(key []byte, config TokenConfig) *TokenVerifier {
	return &TokenVerifier{config: config, key: key}
}

// Subject verifies the token's signature, expiry, and configured claims,
// and returns the subject. Verification failures match ErrTokenInvalid via
// errors.Is.
func (v *TokenVerifier) Subject(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
	}
	if v.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.config.Issuer))
	}
	if v.config.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.config.Audience))
	}

	token, err := jwt.Parse(tokenString, func(_ *jwt.Token) (any, error) {
		return v.key, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("%w: missing subject claim", ErrTokenInvalid)
	}

	return subject, nil
}

// LoginWithToken verifies the token and starts a session for its subject.
// A verification failure records LOGIN_FAILED and returns the error; an
// unknown subject follows the regular failed-login path.
func (p *Proxy) LoginWithToken(ctx context.Context, verifier *TokenVerifier, tokenString string) (bool, error) {
	subject, err := verifier.Subject(tokenString)
	if err != nil {
		p.record(ctx, audit.ActionLoginFailed, "", fmt.Sprintf("token login rejected: %v", err))
		return false, err
	}
	return p.Login(ctx, subject), nil
}
