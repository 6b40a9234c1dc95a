package uiversion

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrymomot/servicebond/pkg/logger"
)

// Header is the response header carrying the UI build version.
const Header = "X-UI-Version"

var (
	ErrNoVersion      = errors.New("uiversion: package has no version")
	ErrReadingPackage = errors.New("uiversion: failed to read package file")
)

// Source reads the "version" field of a UI package.json. The file is parsed
// again only when its modification time changes, so a redeployed UI is picked
// up without a restart.
type Source struct {
	path string

	mu      sync.Mutex
	modTime time.Time
	version string
}

func NewSource(path string) *Source {
	return &Source{path: path}
}

// Version returns the current UI version.
func (s *Source) Version() (string, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return "", errors.Join(ErrReadingPackage, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.version != "" && info.ModTime().Equal(s.modTime) {
		return s.version, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", errors.Join(ErrReadingPackage, err)
	}
	var pkg struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return "", errors.Join(ErrReadingPackage, fmt.Errorf("%s: %w", s.path, err))
	}
	if pkg.Version == "" {
		return "", ErrNoVersion
	}

	s.version = pkg.Version
	s.modTime = info.ModTime()
	return s.version, nil
}

// Middleware sets X-UI-Version on every response before the handler writes
// anything. When the version cannot be discovered the header is omitted and
// a warning is logged.
func Middleware(src *Source, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if version, err := src.Version(); err == nil {
				w.Header().Set(Header, version)
			} else if log != nil {
				log.WarnContext(r.Context(), "cannot discover UI version",
					logger.Component("uiversion"), logger.Error(err))
			}
			next.ServeHTTP(w, r)
		})
	}
}
