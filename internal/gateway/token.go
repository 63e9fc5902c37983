package gateway

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// FailureReason classifies why a token failed verification. The
// orchestrator branches on these, so expired must stay distinguishable
// from the other invalid states.
type FailureReason string

const (
	FailureExpired          FailureReason = "expired"
	FailureMalformed        FailureReason = "malformed"
	FailureSignatureInvalid FailureReason = "signature-invalid"
)

const (
	tokenUseAccess  = "access"
	tokenUseRefresh = "refresh"
)

// Claims is the payload of an access or refresh token.
type Claims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	TokenUse string `json:"token_use"`
	jwt.RegisteredClaims
}

// VerifyResult is the typed outcome of token verification. Verification
// never returns an untyped error: the caller pattern-matches on Valid
// and Reason synchronously.
type VerifyResult struct {
	Valid  bool
	Claims *Claims
	Reason FailureReason
}

// Codec signs and verifies the compact signed credentials issued by the
// login flow. A single symmetric key covers both access and refresh
// tokens; expiry is fixed at issuance.
type Codec struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewCodec(secret string, accessExpiry, refreshExpiry time.Duration) *Codec {
	return &Codec{
		secret:        []byte(secret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// Sign mints an access token for the subject.
func (c *Codec) Sign(userID, email string, role Role) (string, error) {
	return c.sign(userID, email, role, tokenUseAccess, c.accessExpiry)
}

// SignRefresh mints a refresh token. The gateway treats it as an opaque
// handle; only the refresh endpoint verifies it.
func (c *Codec) SignRefresh(userID, email string, role Role) (string, error) {
	return c.sign(userID, email, role, tokenUseRefresh, c.refreshExpiry)
}

func (c *Codec) sign(userID, email string, role Role, use string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Email:    email,
		Role:     string(role),
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify classifies a token as valid, expired, malformed, or carrying an
// invalid signature.
func (c *Codec) Verify(tokenString string) VerifyResult {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return VerifyResult{Reason: FailureExpired}
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return VerifyResult{Reason: FailureSignatureInvalid}
		default:
			return VerifyResult{Reason: FailureMalformed}
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return VerifyResult{Reason: FailureMalformed}
	}

	if claims.TokenUse != tokenUseAccess {
		return VerifyResult{Reason: FailureMalformed}
	}

	return VerifyResult{Valid: true, Claims: claims}
}

// VerifyRefresh verifies a refresh token.
func (c *Codec) VerifyRefresh(tokenString string) VerifyResult {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return VerifyResult{Reason: FailureExpired}
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return VerifyResult{Reason: FailureSignatureInvalid}
		default:
			return VerifyResult{Reason: FailureMalformed}
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenUse != tokenUseRefresh {
		return VerifyResult{Reason: FailureMalformed}
	}

	return VerifyResult{Valid: true, Claims: claims}
}
