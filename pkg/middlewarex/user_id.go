package middlewarex

import (
	"log/slog"
	"net/http"
	"strings"

	"git.appkode.ru/pub/go/failure"

	"gift_wheel/pkg/contextx"
	"gift_wheel/pkg/errcodes"
	"gift_wheel/pkg/httpx/reply"
	"gift_wheel/pkg/logx"
)

const HeaderNameUserID = "X-User-Id"

// UserID достаёт идентификатор пользователя из заголовка X-User-Id.
// Аутентификацию выполняет шлюз перед сервисом.
func UserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := strings.TrimSpace(r.Header.Get(HeaderNameUserID))
		if userID == "" {
			reply.Error(ctx, w, failure.NewUnauthorizedError(
				"missing "+HeaderNameUserID+" header",
				failure.WithCode(errcodes.InvalidUserID),
				failure.WithDescription("User is not identified"),
			))

			return
		}

		ctx = contextx.WithUserID(ctx, contextx.UserID(userID))
		ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldUserID, userID)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
