package vm

// Array is a mutable, shared sequence.
type Array struct {
	Elems []Value
}

// mapKey: хешируемое представление ключа. Ключами могут быть null, bool,
// int и string.
type mapKey struct {
	kind ValueKind
	i    int64
	s    string
}

func keyOf(v Value) (mapKey, bool) {
	switch v.Kind {
	case KindNull:
		return mapKey{kind: KindNull}, true
	case KindBool:
		var i int64
		if v.Bool {
			i = 1
		}
		return mapKey{kind: KindBool, i: i}, true
	case KindInt:
		return mapKey{kind: KindInt, i: v.Int}, true
	case KindString:
		return mapKey{kind: KindString, s: v.Str}, true
	default:
		return mapKey{}, false
	}
}

func (k mapKey) value() Value {
	switch k.kind {
	case KindBool:
		return Bool(k.i != 0)
	case KindInt:
		return Int(k.i)
	case KindString:
		return String(k.s)
	default:
		return Null()
	}
}

// Map keeps insertion order; overwriting a key keeps its position.
type Map struct {
	index map[mapKey]int
	keys  []mapKey
	vals  []Value
}

func NewMap() *Map {
	return &Map{index: make(map[mapKey]int)}
}

// Get returns the value stored under key.
func (m *Map) Get(key Value) (Value, bool) {
	k, ok := keyOf(key)
	if !ok {
		return Null(), false
	}
	i, ok := m.index[k]
	if !ok {
		return Null(), false
	}
	return m.vals[i], true
}

// Set stores value under key; false if key is not hashable.
func (m *Map) Set(key, value Value) bool {
	k, ok := keyOf(key)
	if !ok {
		return false
	}
	if i, ok := m.index[k]; ok {
		m.vals[i] = value
		return true
	}
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, value)
	return true
}

func (m *Map) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *Map) Keys() []Value {
	out := make([]Value, len(m.keys))
	for i, k := range m.keys {
		out[i] = k.value()
	}
	return out
}
