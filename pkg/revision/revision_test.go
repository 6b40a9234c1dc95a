package revision_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/servicebond/pkg/logger"
	"github.com/dmitrymomot/servicebond/pkg/requestid"
	"github.com/dmitrymomot/servicebond/pkg/revision"
	"github.com/dmitrymomot/servicebond/pkg/tenant"
)

type memStore struct {
	mu   sync.Mutex
	revs []*revision.Revision
	err  error
}

func (s *memStore) SaveRevision(_ context.Context, rev *revision.Revision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.revs = append(s.revs, rev)
	return nil
}

type customer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
}

func recording(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := tenant.WithTenant(r.Context(), &tenant.Tenant{ID: 7})
		_ = revision.Record(ctx, "customer", 1, customer{ID: 1, FirstName: "Ann"})
		_ = revision.Record(ctx, "customer", 2, customer{ID: 2, FirstName: "Bob"})
		w.WriteHeader(status)
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("saves on success", func(t *testing.T) {
		t.Parallel()

		store := &memStore{}
		req := httptest.NewRequest(http.MethodPost, "/shop/7/admin/customer", nil)
		req = req.WithContext(requestid.WithContext(req.Context(), "req-9"))
		revision.Middleware(store, logger.Discard())(recording(http.StatusCreated)).ServeHTTP(httptest.NewRecorder(), req)

		require.Len(t, store.revs, 1)
		rev := store.revs[0]
		assert.Equal(t, "req-9", rev.RequestID)
		require.NotNil(t, rev.TenantID)
		assert.Equal(t, int64(7), *rev.TenantID)
		require.Len(t, rev.Versions, 2)
		assert.Equal(t, "customer", rev.Versions[0].ObjectType)
		assert.JSONEq(t, `{"id":2,"first_name":"Bob"}`, string(rev.Versions[1].Snapshot))
		assert.NotEqual(t, uuid.Nil, rev.ID)
	})

	t.Run("skips failed responses", func(t *testing.T) {
		t.Parallel()

		store := &memStore{}
		revision.Middleware(store, nil)(recording(http.StatusUnprocessableEntity)).
			ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/", nil))
		assert.Empty(t, store.revs)
	})

	t.Run("nothing recorded", func(t *testing.T) {
		t.Parallel()

		store := &memStore{}
		revision.Middleware(store, nil)(http.NotFoundHandler()).
			ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		ok := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
		revision.Middleware(store, nil)(ok).
			ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Empty(t, store.revs)
	})

	t.Run("store failure does not affect response", func(t *testing.T) {
		t.Parallel()

		store := &memStore{err: errors.New("db down")}
		rec := httptest.NewRecorder()
		revision.Middleware(store, nil)(recording(http.StatusOK)).
			ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRecord(t *testing.T) {
	t.Parallel()

	assert.NoError(t, revision.Record(context.Background(), "shop", 1, customer{}))
	assert.Nil(t, revision.Pending(context.Background()))

	ctx := revision.WithCollector(context.Background())
	assert.ErrorIs(t, revision.Record(ctx, "shop", 1, func() {}), revision.ErrSnapshot)
	assert.Nil(t, revision.Pending(ctx))

	require.NoError(t, revision.Record(ctx, "shop", 1, map[string]string{"title": "Acme"}))
	rev := revision.Pending(ctx)
	require.NotNil(t, rev)
	assert.Nil(t, rev.TenantID)

	_, err := revision.Commit(ctx, &memStore{err: errors.New("boom")})
	assert.ErrorIs(t, err, revision.ErrSave)
}
