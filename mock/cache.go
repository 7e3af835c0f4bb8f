package mock

import "github.com/fwojciec/bogrep"

var _ bogrep.Cache = (*Cache)(nil)

// Cache is a mock implementation of bogrep.Cache.
type Cache struct {
	GetFn     func(id bogrep.ID, mode bogrep.CacheMode) ([]byte, bool, error)
	PutFn     func(id bogrep.ID, mode bogrep.CacheMode, data []byte) error
	RemoveFn  func(id bogrep.ID) error
	ExistsFn  func(id bogrep.ID, mode bogrep.CacheMode) bool
	IsEmptyFn func() (bool, error)
	ListFn    func() ([]bogrep.Artifact, error)
}

func (c *Cache) Get(id bogrep.ID, mode bogrep.CacheMode) ([]byte, bool, error) {
	return c.GetFn(id, mode)
}

func (c *Cache) Put(id bogrep.ID, mode bogrep.CacheMode, data []byte) error {
	return c.PutFn(id, mode, data)
}

func (c *Cache) Remove(id bogrep.ID) error {
	return c.RemoveFn(id)
}

func (c *Cache) Exists(id bogrep.ID, mode bogrep.CacheMode) bool {
	return c.ExistsFn(id, mode)
}

func (c *Cache) IsEmpty() (bool, error) {
	return c.IsEmptyFn()
}

func (c *Cache) List() ([]bogrep.Artifact, error) {
	return c.ListFn()
}
