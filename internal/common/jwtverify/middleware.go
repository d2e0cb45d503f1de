package jwtverify

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/hirehub/backend/internal/common/errors"
	commonhttp "github.com/hirehub/backend/internal/common/http"
	"github.com/hirehub/backend/internal/common/logger"
)

type Claims struct {
	UserID string
	Role   string
}

type contextKey string

const claimsKey contextKey = "jwt_claims"

// Middleware authenticates the request with an HS256 bearer token. The token
// may also arrive as the `token` query parameter, which is how browsers hand
// it to the WebSocket endpoint.
func Middleware(secret string, log *logger.Logger) func(next http.Handler) http.Handler {
	secretBytes := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := tokenFromRequest(r)
			if !ok {
				log.Warnf("jwt auth failed path=%s: missing or invalid authorization header", r.URL.Path)
				writeDomainError(w, r, commonerrors.ErrUnauthorized)
				return
			}

			claims, err := ParseToken(tokenString, secretBytes)
			if err != nil {
				log.Warnf("jwt auth failed path=%s: %v", r.URL.Path, err)
				writeDomainError(w, r, commonerrors.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRoles rejects authenticated callers whose role is not listed.
func RequireRoles(roles ...string) func(next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := FromContext(r.Context())
			if !ok {
				writeDomainError(w, r, commonerrors.ErrUnauthorized)
				return
			}
			if _, ok := allowed[claims.Role]; !ok {
				writeDomainError(w, r, commonerrors.ErrRoleForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func FromContext(ctx context.Context) (Claims, bool) {
	val := ctx.Value(claimsKey)
	claims, ok := val.(Claims)
	return claims, ok
}

// UserKey buckets rate limits by authenticated user, falling back to the
// client address.
func UserKey(r *http.Request) string {
	if claims, ok := FromContext(r.Context()); ok && claims.UserID != "" {
		return claims.UserID
	}
	return commonhttp.ClientIP(r)
}

func ParseToken(tokenString string, secret []byte) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, commonerrors.ErrInvalidTokenSigningMethod
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("token is not valid")
		}
		return Claims{}, err
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("invalid claims type")
	}

	sub, _ := mapClaims["sub"].(string)
	role, _ := mapClaims["role"].(string)
	if sub == "" || role == "" {
		return Claims{}, commonerrors.ErrMissingTokenClaims
	}

	return Claims{
		UserID: sub,
		Role:   role,
	}, nil
}

func tokenFromRequest(r *http.Request) (string, bool) {
	raw := r.Header.Get("Authorization")
	if strings.HasPrefix(raw, "Bearer ") {
		token := strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
		return token, token != ""
	}
	if raw != "" {
		return "", false
	}
	token := r.URL.Query().Get("token")
	return token, token != ""
}

func writeDomainError(w http.ResponseWriter, r *http.Request, err commonerrors.DomainError) {
	commonhttp.WriteErrorEnvelope(w, err.HTTPStatus(), err.Code(), err.Message(), nil, commonhttp.TraceIDFromContext(r.Context()))
}
