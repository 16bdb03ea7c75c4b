package operators

import (
	"math/big"
	"sync"

	"github.com/texuf/towns-utils/types"
)

// runCache memoizes loaded values for the duration of one aggregation run.
// Values are cloned when stored and when returned, so callers never share
// state with the cache.
type runCache[K comparable, V any] struct {
	mutex  sync.Mutex
	values map[K]V
	clone  func(V) V
}

func newRunCache[K comparable, V any](clone func(V) V) *runCache[K, V] {
	return &runCache[K, V]{
		values: map[K]V{},
		clone:  clone,
	}
}

func (c *runCache[K, V]) getOrLoad(key K, load func() (V, error)) (V, error) {
	c.mutex.Lock()
	value, found := c.values[key]
	c.mutex.Unlock()
	if found {
		return c.clone(value), nil
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	c.mutex.Lock()
	c.values[key] = c.clone(value)
	c.mutex.Unlock()

	return c.clone(value), nil
}

func (c *runCache[K, V]) len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.values)
}

func cloneValue[V any](value V) V {
	return value
}

func cloneBigInt(value *big.Int) *big.Int {
	if value == nil {
		return nil
	}
	return new(big.Int).Set(value)
}

func cloneNodeRecords(records []*types.NodeRecord) []*types.NodeRecord {
	if records == nil {
		return nil
	}
	res := make([]*types.NodeRecord, len(records))
	for i, record := range records {
		res[i] = record.Clone()
	}
	return res
}
