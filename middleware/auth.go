package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"mobistore/errs"
	"mobistore/models"
	"mobistore/utils"
)

type contextKey string

// UserContextKey holds the verified *utils.Claims for the request.
const UserContextKey = contextKey("user")

// Auth verifies the bearer token and attaches its claims to the request
// context. The user id on a request comes from here and never from the body.
func Auth(secret []byte, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.Error(w, errs.Auth("no token, authorization denied"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.Error(w, errs.Auth("invalid authorization header format"))
				return
			}

			claims, err := utils.ParseToken(secret, parts[1])
			if err != nil {
				log.Debug("token rejected", zap.Error(err))
				utils.Error(w, errs.Auth("token is not valid"))
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly gates a route to admin users. Must run after Auth.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(UserContextKey).(*utils.Claims)
		if !ok || claims.Role != models.RoleAdmin {
			utils.Error(w, errs.Forbidden("access denied, admins only"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserID extracts the authenticated user's id from the request context.
func UserID(ctx context.Context) (primitive.ObjectID, error) {
	claims, ok := ctx.Value(UserContextKey).(*utils.Claims)
	if !ok {
		return primitive.NilObjectID, errs.Auth("no token, authorization denied")
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return primitive.NilObjectID, errs.Auth("token is not valid")
	}
	return id, nil
}
