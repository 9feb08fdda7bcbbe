package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/franciscosanchezn/gin-tapas-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultTokenTTL matches the lifetime of the admin session cookie
	DefaultTokenTTL = time.Hour
	// DefaultIssuer is written to the iss claim of every credential
	DefaultIssuer = "gin-tapas-api"
	// AdminSubject identifies the single operator principal
	AdminSubject = "admin"
)

// Settings configures the Gate. It is built once from the application config.
type Settings struct {
	Password string
	Secret   string
	TTL      time.Duration
	Issuer   string
}

// Principal is the authenticated caller extracted from a valid credential
type Principal struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Gate checks the admin password, issues signed credentials and validates them
type Gate struct {
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	issuer       string
	now          func() time.Time
}

// NewGate creates a Gate from settings; the password is kept only as a bcrypt hash
func NewGate(settings Settings) (*Gate, error) {
	if settings.Password == "" {
		return nil, errors.New("auth: password is required")
	}
	if settings.Secret == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	if settings.TTL <= 0 {
		settings.TTL = DefaultTokenTTL
	}
	if settings.Issuer == "" {
		settings.Issuer = DefaultIssuer
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(settings.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	return &Gate{
		passwordHash: hash,
		secret:       []byte(settings.Secret),
		ttl:          settings.TTL,
		issuer:       settings.Issuer,
		now:          time.Now,
	}, nil
}

// TTL returns the lifetime of issued credentials
func (g *Gate) TTL() time.Duration {
	return g.ttl
}

// CheckPassword reports whether password matches the configured one
func (g *Gate) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password)) == nil
}

// IssueToken signs a new credential for the admin principal
func (g *Gate) IssueToken() (string, time.Time, error) {
	now := g.now()
	expiresAt := now.Add(g.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   AdminSubject,
		Issuer:    g.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Authenticate validates a credential and returns its principal.
// An empty token yields ErrUnauthorized, any other failure ErrForbidden.
func (g *Gate) Authenticate(tokenString string) (Principal, error) {
	if tokenString == "" {
		return Principal{}, models.ErrUnauthorized
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Only accept HMAC so an attacker cannot switch the algorithm header
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(g.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", models.ErrForbidden, err)
	}
	if !token.Valid || claims.Subject != AdminSubject {
		return Principal{}, fmt.Errorf("%w: unexpected subject %q", models.ErrForbidden, claims.Subject)
	}

	principal := Principal{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		principal.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}
	return principal, nil
}
