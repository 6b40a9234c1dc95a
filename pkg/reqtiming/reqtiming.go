package reqtiming

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/servicebond/pkg/requestid"
)

type contextKey struct{}

type mark struct {
	id    string
	start time.Time
	pass  atomic.Int32
}

// Start attaches a timing mark to ctx. An existing mark is kept, so stacking
// the middleware at several points of the pipeline shares one counter.
func Start(ctx context.Context) context.Context {
	if _, ok := ctx.Value(contextKey{}).(*mark); ok {
		return ctx
	}
	id := requestid.FromContext(ctx)
	if id == "" {
		id = requestid.New()
	}
	return context.WithValue(ctx, contextKey{}, &mark{id: id, start: time.Now()})
}

// Log writes one timing line for the request: its correlation id, the pass
// number and the time elapsed since the first line. Without a mark in ctx
// nothing is written.
func Log(ctx context.Context, log *slog.Logger, tag, path, message string) {
	m, ok := ctx.Value(contextKey{}).(*mark)
	if !ok {
		return
	}
	log.LogAttrs(ctx, slog.LevelDebug, tag,
		slog.Group("timing",
			slog.String("id", m.id),
			slog.Int("pass", int(m.pass.Add(1))),
			slog.Duration("delta", time.Since(m.start)),
		),
		slog.String("path", path),
		slog.String("result", message),
	)
}

// Middleware logs a request/response pair when debug is on.
func Middleware(debug bool, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !debug || log == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := Start(r.Context())
			path := r.URL.Path
			Log(ctx, log, "request", path, "")

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			Log(ctx, log, "response", path, describe(ww))
		})
	}
}

func describe(ww chimw.WrapResponseWriter) string {
	status := ww.Status()
	if status == 0 {
		status = http.StatusOK
	}
	result := strconv.Itoa(status)
	switch status {
	case http.StatusMultipleChoices, http.StatusMovedPermanently, http.StatusFound, http.StatusTemporaryRedirect:
		location := ww.Header().Get("Location")
		if location == "" {
			location = "?"
		}
		result += " => " + location
	default:
		if n := ww.BytesWritten(); n > 0 {
			result += fmt.Sprintf(" (%db)", n)
		}
	}
	return result
}
