package revision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/servicebond/pkg/requestid"
	"github.com/dmitrymomot/servicebond/pkg/tenant"
)

var (
	ErrSnapshot = errors.New("revision: failed to snapshot object")
	ErrSave     = errors.New("revision: failed to save")
)

// Version is the state of one object after a change.
type Version struct {
	ObjectType string          `json:"object_type"`
	ObjectID   int64           `json:"object_id"`
	Snapshot   json.RawMessage `json:"snapshot"`
}

// Revision groups the versions saved while serving one request.
type Revision struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	RequestID string    `json:"request_id,omitempty"`
	TenantID  *int64    `json:"tenant_id,omitempty"`
	Versions  []Version `json:"versions"`
}

// Store persists revisions.
type Store interface {
	SaveRevision(ctx context.Context, rev *Revision) error
}

type collector struct {
	mu       sync.Mutex
	tenantID *int64
	versions []Version
}

type contextKey struct{}

// WithCollector starts a revision for ctx.
func WithCollector(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, &collector{})
}

// Record snapshots obj as JSON and adds it to the revision of ctx. Without a
// collector in ctx the call does nothing. The first tenant seen in a
// recording context becomes the revision's tenant.
func Record(ctx context.Context, objectType string, objectID int64, obj any) error {
	c, ok := ctx.Value(contextKey{}).(*collector)
	if !ok {
		return nil
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return errors.Join(ErrSnapshot, fmt.Errorf("%s %d: %w", objectType, objectID, err))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tenantID == nil {
		if id, ok := tenant.IDFromContext(ctx); ok {
			c.tenantID = &id
		}
	}
	c.versions = append(c.versions, Version{ObjectType: objectType, ObjectID: objectID, Snapshot: data})
	return nil
}

// Pending returns the revision collected so far, or nil when nothing was
// recorded.
func Pending(ctx context.Context) *Revision {
	c, ok := ctx.Value(contextKey{}).(*collector)
	if !ok {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.versions) == 0 {
		return nil
	}
	return &Revision{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		RequestID: requestid.FromContext(ctx),
		TenantID:  c.tenantID,
		Versions:  append([]Version(nil), c.versions...),
	}
}

// Commit saves the pending revision of ctx, if any.
func Commit(ctx context.Context, store Store) (*Revision, error) {
	rev := Pending(ctx)
	if rev == nil {
		return nil, nil
	}
	if err := store.SaveRevision(ctx, rev); err != nil {
		return nil, errors.Join(ErrSave, err)
	}
	return rev, nil
}
