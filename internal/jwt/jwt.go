package jwt

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	. "time-tracker/internal/config"
)

var (
	ErrNonValidToken    = errors.New("token did not pass validation")
	ErrInvalidClaimType = errors.New("invalid claim type")
	ErrWrongTokenType   = errors.New("wrong token type")
)

var tokenSignatureAlg = jwt.SigningMethodHS256

const verificationTokenType = "verification"

// Claim for desktop client access tokens. Subject is the employee id.
type AccessClaim struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func NewAccessClaim(employeeID int64, email string) AccessClaim {
	ttl := time.Duration(Cfg.TokenTTL) * time.Minute
	return AccessClaim{
		Email:            email,
		RegisteredClaims: newRegisteredClaims(strconv.FormatInt(employeeID, 10), ttl),
	}
}

func (c *AccessClaim) EmployeeID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

func DecodeAccessJWT(tokenString string) (*AccessClaim, error) {
	return decodeJWT(tokenString, &AccessClaim{})
}

// Claim for employee email verification tokens.
type VerificationClaim struct {
	EmployeeID int64  `json:"employee_id"`
	Type       string `json:"type"`
	jwt.RegisteredClaims
}

func NewVerificationClaim(employeeID int64) VerificationClaim {
	ttl := time.Duration(Cfg.VerificationTTL) * time.Hour
	return VerificationClaim{
		EmployeeID:       employeeID,
		Type:             verificationTokenType,
		RegisteredClaims: newRegisteredClaims("", ttl),
	}
}

// DecodeVerificationJWT rejects otherwise valid tokens of another type, so an
// access token can never be replayed as a verification token.
func DecodeVerificationJWT(tokenString string) (*VerificationClaim, error) {
	claims, err := decodeJWT(tokenString, &VerificationClaim{})
	if err != nil {
		return nil, err
	}
	if claims.Type != verificationTokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// The jti makes every issued token unique. Timestamps alone have second
// resolution, so two tokens minted back to back would otherwise be
// byte-identical and a re-issued verification token would not invalidate
// the previous one.
func newRegisteredClaims(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now().UTC()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

// Generic JWT token generation function
func GenerateJWT(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(tokenSignatureAlg, claims)
	JWTSecret := []byte(Cfg.Secret)
	return token.SignedString(JWTSecret)
}

func decodeJWT[T jwt.Claims](tokenString string, claimsType T) (T, error) {
	var zero T

	parsedToken, err := jwt.ParseWithClaims(tokenString, claimsType, func(token *jwt.Token) (interface{}, error) {
		JWTSecret := []byte(Cfg.Secret)
		return JWTSecret, nil
	}, jwt.WithValidMethods([]string{tokenSignatureAlg.Alg()}))

	if err != nil {
		return zero, err
	} else if parsedToken == nil || !parsedToken.Valid {
		return zero, ErrNonValidToken
	} else if claims, ok := parsedToken.Claims.(T); ok {
		return claims, nil
	}

	return zero, ErrInvalidClaimType
}
