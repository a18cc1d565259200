package seq

// OrderedIndex assigns dense indices to keys in order of first insertion.
// The zero value is empty and ready to use.
type OrderedIndex struct {
	keys  []string
	index map[string]int
}

// Add returns the index of key, assigning the next one if key is new.
func (o *OrderedIndex) Add(key string) (index int, added bool) {
	if n, ok := o.index[key]; ok {
		return n, false
	}
	if o.index == nil {
		o.index = make(map[string]int)
	}
	index = len(o.keys)
	o.index[key] = index
	o.keys = append(o.keys, key)
	return index, true
}

// Index looks up the index of key.
func (o *OrderedIndex) Index(key string) (int, bool) {
	n, ok := o.index[key]
	return n, ok
}

// Keys returns keys in index order.
func (o *OrderedIndex) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Len returns the number of keys.
func (o *OrderedIndex) Len() int {
	return len(o.keys)
}
