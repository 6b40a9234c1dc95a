package querylog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mattn/go-isatty"
)

// Query is one statement executed while serving a request.
type Query struct {
	SQL      string
	Duration time.Duration
	Err      error
}

// String renders the query as "[seconds] sql" with whitespace collapsed.
func (q Query) String() string {
	return fmt.Sprintf("[%.3f] %s", q.Duration.Seconds(), strings.Join(strings.Fields(q.SQL), " "))
}

type recorder struct {
	mu      sync.Mutex
	queries []Query
}

func (r *recorder) add(q Query) {
	r.mu.Lock()
	r.queries = append(r.queries, q)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []Query {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Query(nil), r.queries...)
}

type (
	recorderKey struct{}
	startKey    struct{}
)

type started struct {
	sql string
	at  time.Time
}

// WithRecorder starts collecting queries for ctx.
func WithRecorder(ctx context.Context) context.Context {
	return context.WithValue(ctx, recorderKey{}, &recorder{})
}

// Queries returns the statements recorded so far for ctx.
func Queries(ctx context.Context) []Query {
	rec, ok := ctx.Value(recorderKey{}).(*recorder)
	if !ok {
		return nil
	}
	return rec.snapshot()
}

// Tracer is a pgx.QueryTracer that records queries into the request context.
// Queries run with a context that carries no recorder are ignored.
type Tracer struct{}

var _ pgx.QueryTracer = Tracer{}

func (Tracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	if _, ok := ctx.Value(recorderKey{}).(*recorder); !ok {
		return ctx
	}
	return context.WithValue(ctx, startKey{}, started{sql: data.SQL, at: time.Now()})
}

func (Tracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	rec, ok := ctx.Value(recorderKey{}).(*recorder)
	if !ok {
		return
	}
	s, ok := ctx.Value(startKey{}).(started)
	if !ok {
		return
	}
	rec.add(Query{SQL: s.sql, Duration: time.Since(s.at), Err: data.Err})
}

type config struct {
	out        io.Writer
	isTerminal func(io.Writer) bool
}

type Option func(*config)

// WithOutput sets where query lines are printed. Default: os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.out = w
		}
	}
}

// WithTerminalCheck overrides the TTY detection for the output.
func WithTerminalCheck(fn func(io.Writer) bool) Option {
	return func(c *config) {
		if fn != nil {
			c.isTerminal = fn
		}
	}
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Middleware prints every query executed during the request after the
// response is produced. It is a no-op unless debug is on and the output is a
// terminal.
func Middleware(debug bool, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{out: os.Stdout, isTerminal: IsTerminal}
	for _, opt := range opts {
		opt(cfg)
	}
	enabled := debug && cfg.isTerminal(cfg.out)

	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithRecorder(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))

			for _, q := range Queries(ctx) {
				fmt.Fprintf(cfg.out, "\033[1;31m[%.3f]\033[0m \033[1m%s\033[0m\n",
					q.Duration.Seconds(), strings.Join(strings.Fields(q.SQL), " "))
			}
		})
	}
}
