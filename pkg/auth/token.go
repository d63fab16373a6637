package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alanhoffer/hf-dashboard/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var signingMethod = jwt.SigningMethodHS256

// MintAccessToken signs an HS256 token valid for cfg.ExpirationMinutes from
// now. A blank payload.JTI gets a fresh uuid, which doubles as the session id.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload AccessTokenPayload) (string, error) {
	switch {
	case cfg.Secret == "":
		return "", errors.New("jwt secret is required")
	case cfg.Issuer == "":
		return "", errors.New("jwt issuer is required")
	case cfg.ExpirationMinutes <= 0:
		return "", errors.New("jwt expiration minutes must be positive")
	case payload.UserID == uuid.Nil:
		return "", errors.New("user id is required")
	case !payload.Role.IsValid():
		return "", fmt.Errorf("invalid user role %q", payload.Role)
	}

	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}
	ttl := time.Duration(cfg.ExpirationMinutes) * time.Minute

	signed, err := jwt.NewWithClaims(signingMethod, AccessTokenClaims{
		UserID: payload.UserID,
		Email:  payload.Email,
		Role:   payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   payload.UserID.String(),
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseAccessToken verifies signature, issuer and expiry.
func ParseAccessToken(cfg config.JWTConfig, token string) (*AccessTokenClaims, error) {
	return parse(cfg, token)
}

// ParseAccessTokenAllowExpired still verifies signature and issuer but skips
// time based claims, so refresh and logout can read the jti of a stale token.
func ParseAccessTokenAllowExpired(cfg config.JWTConfig, token string) (*AccessTokenClaims, error) {
	claims, err := parse(cfg, token, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, err
	}
	// Skipping claim validation also skips the issuer check.
	if claims.Issuer != cfg.Issuer {
		return nil, fmt.Errorf("%w: unexpected issuer %q", jwt.ErrTokenInvalidIssuer, claims.Issuer)
	}
	return claims, nil
}

// IsExpired reports whether err came from an access token past its exp.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}

func parse(cfg config.JWTConfig, token string, extra ...jwt.ParserOption) (*AccessTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	opts := append([]jwt.ParserOption{
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	}, extra...)

	claims := &AccessTokenClaims{}
	_, err := jwt.NewParser(opts...).ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}
