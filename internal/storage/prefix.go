package storage

// PrefixDB is a view of a DB restricted to keys that start with a fixed
// namespace. Keys passed in and handed out are relative to the namespace.
type PrefixDB struct {
	inner DB
	ns    []byte
}

// NewPrefixDB returns a view of inner scoped to ns.
func NewPrefixDB(inner DB, ns []byte) *PrefixDB {
	return &PrefixDB{inner: inner, ns: append([]byte(nil), ns...)}
}

func (p *PrefixDB) key(k []byte) []byte {
	full := make([]byte, 0, len(p.ns)+len(k))
	full = append(full, p.ns...)
	return append(full, k...)
}

func (p *PrefixDB) Get(key []byte) ([]byte, error) { return p.inner.Get(p.key(key)) }

func (p *PrefixDB) Put(key, value []byte) error { return p.inner.Put(p.key(key), value) }

func (p *PrefixDB) Delete(key []byte) error { return p.inner.Delete(p.key(key)) }

func (p *PrefixDB) Has(key []byte) (bool, error) { return p.inner.Has(p.key(key)) }

// ForEach visits the namespace keys starting with prefix, in key order.
func (p *PrefixDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	n := len(p.ns)
	return p.inner.ForEach(p.key(prefix), func(key, value []byte) error {
		return fn(key[n:], value)
	})
}

// DeleteAll removes every key in the namespace and reports how many were
// removed. Keys are collected before deleting so the iteration never sees
// its own writes.
func (p *PrefixDB) DeleteAll() (int, error) {
	var doomed [][]byte
	if err := p.inner.ForEach(p.ns, func(key, _ []byte) error {
		doomed = append(doomed, append([]byte(nil), key...))
		return nil
	}); err != nil {
		return 0, err
	}
	for i, key := range doomed {
		if err := p.inner.Delete(key); err != nil {
			return i, err
		}
	}
	return len(doomed), nil
}

// Close does nothing; the inner DB is closed by its owner.
func (p *PrefixDB) Close() error {
	return nil
}
