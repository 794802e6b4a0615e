package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/sheetglance/internal/common"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// authMiddleware resolves the bearer token to a user id and stores it in the
// request context. Requests without a valid token never reach the handlers.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.writeError(w, r, common.ErrorUnauthorized)
			return
		}

		userID, err := s.provider.Resolve(r.Context(), token)
		if err != nil {
			s.writeError(w, r, common.ErrorUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get(common.AccessTokenHeaderName)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
