package subpath

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// TableCache keeps one specialized table per tenant id for the life of the
// process. Reads after the first build take no lock. Concurrent first
// requests for the same id share a single build; builds for different ids
// run independently.
type TableCache struct {
	template *Template
	tables   sync.Map // int64 -> *Table
	group    singleflight.Group
}

// NewTableCache creates an empty cache over template.
func NewTableCache(template *Template) *TableCache {
	if template == nil {
		panic("subpath: template cannot be nil")
	}
	return &TableCache{template: template}
}

// Template returns the template the cache specializes.
func (c *TableCache) Template() *Template { return c.template }

// Get returns the table for id, building it on first use.
// Repeated calls return the same *Table.
func (c *TableCache) Get(id int64) (*Table, error) {
	if t, ok := c.tables.Load(id); ok {
		return t.(*Table), nil
	}

	v, err, _ := c.group.Do(strconv.FormatInt(id, 10), func() (any, error) {
		if t, ok := c.tables.Load(id); ok {
			return t, nil
		}
		t, err := c.template.Specialize(id)
		if err != nil {
			return nil, err
		}
		actual, _ := c.tables.LoadOrStore(id, t)
		return actual, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Table), nil
}

// Forget drops the table for id. The next Get rebuilds it.
func (c *TableCache) Forget(id int64) {
	c.tables.Delete(id)
}

// Len returns the number of cached tables.
func (c *TableCache) Len() int {
	n := 0
	c.tables.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
