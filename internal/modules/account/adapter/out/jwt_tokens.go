package out

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"selflab/internal/modules/account/domain"
	accountout "selflab/internal/modules/account/port/out"
)

type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type JWTIssuer struct {
	secret []byte
}

func NewJWTIssuer(secret []byte) accountout.TokenIssuer {
	return JWTIssuer{secret: secret}
}

// LoadOrCreateSecret reads the signing key at path, generating one on first use.
func LoadOrCreateSecret(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err == nil {
		secret, decodeErr := hex.DecodeString(strings.TrimSpace(string(raw)))
		if decodeErr != nil || len(secret) < 32 {
			return nil, fmt.Errorf("session key %s is malformed", path)
		}
		return secret, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read session key: %w", err)
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate session key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session key dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(secret)), 0o600); err != nil {
		return nil, fmt.Errorf("write session key: %w", err)
	}
	return secret, nil
}

func (j JWTIssuer) Issue(session domain.Session) (string, error) {
	claims := sessionClaims{
		Email: session.Email,
		Name:  session.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  session.UserID,
			IssuedAt: jwt.NewNumericDate(session.SignedInAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

func (j JWTIssuer) Verify(token string) (domain.Session, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(*jwt.Token) (any, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Session{}, fmt.Errorf("verify session: %w", err)
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || claims.Subject == "" {
		return domain.Session{}, fmt.Errorf("verify session: missing subject")
	}
	session := domain.Session{UserID: claims.Subject, Email: claims.Email, Name: claims.Name}
	if claims.IssuedAt != nil {
		session.SignedInAt = claims.IssuedAt.Time.UTC()
	}
	return session, nil
}
