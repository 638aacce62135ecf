// internal/middleware/user.go
package middleware

import (
	"context"
	"net/http"

	"habitkeep/internal/model"
	"habitkeep/internal/webutil"

	"github.com/google/uuid"
)

// UserContextMiddleware は X-User-ID ヘッダーからユーザーIDを取り出して
// コンテキストに設定します。認証そのものは上位のゲートウェイに委ねており、
// このコアは所有ユーザーのスコープだけを扱います。
func UserContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			webutil.RespondWithError(w, http.StatusUnauthorized, "Missing X-User-ID header")
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			webutil.RespondWithError(w, http.StatusUnauthorized, "Invalid X-User-ID format")
			return
		}

		ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext はコンテキストからユーザーIDを取得します。
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	if userID, ok := ctx.Value(model.UserIDKey).(uuid.UUID); ok {
		return userID, nil
	}
	return uuid.Nil, model.ErrForbidden
}
