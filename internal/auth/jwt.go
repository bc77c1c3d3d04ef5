package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"QrestAPI/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized оборачивает все отказы проверки токена.
var ErrUnauthorized = errors.New("unauthorized")

// JWTValidator проверяет входящие токены по конфигурации: HS256 на общем
// секрете либо RS256/ES256 на публичном ключе.
type JWTValidator struct {
	cfg config.JWTConfig
	key any

	// подменяется в тестах
	clockFunc func() time.Time
}

func NewJWTValidator(cfg config.JWTConfig) (*JWTValidator, error) {
	alg := strings.ToUpper(strings.TrimSpace(cfg.ValidationType))
	v := &JWTValidator{cfg: cfg, clockFunc: time.Now}
	v.cfg.ValidationType = alg

	switch alg {
	case "HS256":
		if cfg.HMACSecret == "" {
			return nil, errors.New("jwt hmac secret is required for HS256")
		}
		v.key = []byte(cfg.HMACSecret)
	case "RS256":
		pemData, err := publicKeyPEM(cfg)
		if err != nil {
			return nil, err
		}
		key, err := jwt.ParseRSAPublicKeyFromPEM(pemData)
		if err != nil {
			return nil, fmt.Errorf("parse RSA public key: %w", err)
		}
		v.key = key
	case "ES256":
		pemData, err := publicKeyPEM(cfg)
		if err != nil {
			return nil, err
		}
		key, err := jwt.ParseECPublicKeyFromPEM(pemData)
		if err != nil {
			return nil, fmt.Errorf("parse EC public key: %w", err)
		}
		v.key = key
	default:
		return nil, fmt.Errorf("unsupported jwt validation type %q", cfg.ValidationType)
	}

	return v, nil
}

func publicKeyPEM(cfg config.JWTConfig) ([]byte, error) {
	if cfg.PublicKeyPEM != "" {
		return []byte(cfg.PublicKeyPEM), nil
	}
	if cfg.PublicKeyPath != "" {
		data, err := os.ReadFile(cfg.PublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read public key file: %w", err)
		}
		return data, nil
	}
	return nil, errors.New("jwt public key is required: set AUTH_JWT_PUBLIC_KEY or AUTH_JWT_PUBLIC_KEY_PATH")
}

// ValidateToken проверяет подпись, алгоритм и стандартные клеймы
// (iss, aud, exp, nbf, iat) с допуском ClockSkewSec.
func (v *JWTValidator) ValidateToken(token string) (jwt.MapClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{v.cfg.ValidationType}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(time.Duration(v.cfg.ClockSkewSec) * time.Second),
		jwt.WithTimeFunc(v.clockFunc),
	}
	if v.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.cfg.Issuer))
	}
	if v.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.cfg.Audience))
	}

	parsed, err := jwt.NewParser(opts...).Parse(token, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: unexpected claims type", ErrUnauthorized)
	}
	return claims, nil
}

// BearerToken достаёт токен из заголовка Authorization.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
