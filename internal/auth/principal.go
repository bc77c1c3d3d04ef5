package auth

import (
	"context"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const principalContextKey contextKey = "auth_principal"

// Principal — аутентифицированный субъект запроса. OrganizationID равен
// нулю, пока пользователь не привязан к организации (pre-tenant операции).
type Principal struct {
	UserID         int64
	OrganizationID int64
	Email          string
	Name           string
}

// PrincipalFromClaims собирает Principal из клеймов: sub — числовой id
// пользователя, org_id, email и name опциональны.
func PrincipalFromClaims(claims jwt.MapClaims) (Principal, error) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Principal{}, fmt.Errorf("%w: missing sub claim", ErrUnauthorized)
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: sub claim must be a numeric user id", ErrUnauthorized)
	}

	p := Principal{UserID: userID}

	if raw, ok := claims["org_id"]; ok {
		switch v := raw.(type) {
		case float64:
			p.OrganizationID = int64(v)
		case string:
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return Principal{}, fmt.Errorf("%w: malformed org_id claim", ErrUnauthorized)
			}
			p.OrganizationID = id
		default:
			return Principal{}, fmt.Errorf("%w: malformed org_id claim", ErrUnauthorized)
		}
	}

	if email, ok := claims["email"].(string); ok {
		p.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		p.Name = name
	}

	return p, nil
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(Principal)
	return p, ok
}
