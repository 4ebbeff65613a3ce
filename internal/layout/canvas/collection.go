package canvas

// collection is a (byID, order) pair for one entity kind. It is never changed in
// place: every write returns a new collection, so older values can be kept as
// history snapshots without copying.
type collection[T any] struct {
	byID  map[string]T
	order []string
	key   func(T) string
}

func newCollection[T any](key func(T) string) collection[T] {
	return collection[T]{byID: map[string]T{}, key: key}
}

func (c collection[T]) get(id string) (T, bool) {
	v, ok := c.byID[id]
	return v, ok
}

func (c collection[T]) has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

func (c collection[T]) len() int {
	return len(c.order)
}

// put inserts or replaces items. New ids are appended to the order.
func (c collection[T]) put(items ...T) collection[T] {
	if len(items) == 0 {
		return c
	}
	byID := make(map[string]T, len(c.byID)+len(items))
	for k, v := range c.byID {
		byID[k] = v
	}
	order := c.order
	copied := false
	for _, item := range items {
		id := c.key(item)
		if _, exists := byID[id]; !exists {
			if !copied {
				order = append([]string(nil), c.order...)
				copied = true
			}
			order = append(order, id)
		}
		byID[id] = item
	}
	return collection[T]{byID: byID, order: order, key: c.key}
}

// without removes the given ids; unknown ids are ignored.
func (c collection[T]) without(ids ...string) collection[T] {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if c.has(id) {
			drop[id] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return c
	}
	byID := make(map[string]T, len(c.byID))
	order := make([]string, 0, len(c.order))
	for _, id := range c.order {
		if _, ok := drop[id]; ok {
			continue
		}
		order = append(order, id)
		byID[id] = c.byID[id]
	}
	return collection[T]{byID: byID, order: order, key: c.key}
}

// list returns the items in insertion order.
func (c collection[T]) list() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

func (c collection[T]) ids() []string {
	return append([]string(nil), c.order...)
}
