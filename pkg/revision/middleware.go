package revision

import (
	"context"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/servicebond/pkg/logger"
)

// Middleware collects the versions recorded by handlers and saves them as
// one revision once the response status is known to be below 400. Saving is
// not transactional with the changes themselves.
func Middleware(store Store, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Discard()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithCollector(r.Context())
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status >= http.StatusBadRequest {
				return
			}

			rev, err := Commit(context.WithoutCancel(ctx), store)
			if err != nil {
				log.ErrorContext(ctx, "revision not saved",
					logger.Component("revision"), logger.Error(err))
				return
			}
			if rev != nil {
				log.DebugContext(ctx, "revision saved",
					logger.Component("revision"),
					slog.String("revision_id", rev.ID.String()),
					slog.Int("versions", len(rev.Versions)),
				)
			}
		})
	}
}
