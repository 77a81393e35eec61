package apitest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// we are doing this to avoid collision with other context users
type contextKey string

const userKey contextKey = "username"

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func (s *Server) generateToken(username string) (string, error) {
	expireTime := time.Now().Add(24 * time.Hour)

	c := &claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expireTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(s.secret)
}

func (s *Server) verifyToken(tokenString string) (*claims, error) {
	c := &claims{}

	token, err := jwt.ParseWithClaims(tokenString, c, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	return c, nil
}

// authMiddleware enforces the "Authorization: Token <t>" convention the
// real API uses and puts the username in the request context.
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		const prefix = "Token "
		if !strings.HasPrefix(header, prefix) {
			writeError(w, http.StatusUnauthorized, "authentication credentials were not provided")
			return
		}

		c, err := s.verifyToken(strings.TrimPrefix(header, prefix))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, c.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func usernameFromContext(r *http.Request) string {
	username, _ := r.Context().Value(userKey).(string)
	return username
}
