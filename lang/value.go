package lang

import (
	"iter"
	"math/big"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// ValueKind identifies the variant of a [Value].
type ValueKind int

const (
	ValueInteger ValueKind = iota // Integer
	ValueList                     // List
	ValueDict                     // Dict
)

// Value is the result of evaluating an expression. It is a closed set of
// exactly three variants: [Integer], [List], and [Dict]. Values are immutable
// once constructed and may be shared freely.
//
// Consumers should switch on the concrete type (or on [Value.Kind]) and treat
// any other case as unreachable.
type Value interface {
	Kind() ValueKind
	MarshalJSON() ([]byte, error)

	sealed()
}

// Integer is an arbitrary-precision signed integer.
type Integer struct {
	n *big.Int
}

// NewInteger returns an Integer holding a copy of n.
func NewInteger(n *big.Int) Integer {
	return Integer{n: new(big.Int).Set(n)}
}

// IntegerFrom returns an Integer holding i.
func IntegerFrom(i int64) Integer {
	return Integer{n: big.NewInt(i)}
}

func (Integer) Kind() ValueKind { return ValueInteger }

func (Integer) sealed() {}

// Int returns a copy of the integer's value.
func (i Integer) Int() *big.Int {
	if i.n == nil {
		return new(big.Int)
	}

	return new(big.Int).Set(i.n)
}

// Int64 returns the value as an int64 and reports whether it fits.
func (i Integer) Int64() (int64, bool) {
	if i.n == nil {
		return 0, true
	}

	if !i.n.IsInt64() {
		return 0, false
	}

	return i.n.Int64(), true
}

// String returns the decimal representation of the integer.
func (i Integer) String() string {
	if i.n == nil {
		return "0"
	}

	return i.n.String()
}

// List is an ordered, possibly empty sequence of values.
type List struct {
	items []Value
}

// NewList returns a List of the given items in order.
func NewList(items ...Value) List {
	return List{items: append([]Value(nil), items...)}
}

func (List) Kind() ValueKind { return ValueList }

func (List) sealed() {}

// Len returns the number of items.
func (l List) Len() int { return len(l.items) }

// At returns the i-th item.
func (l List) At(i int) Value { return l.items[i] }

// All returns an iterator over the items and their indices.
func (l List) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for i, v := range l.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Dict is an ordered collection of uniquely keyed values. Iteration follows
// insertion order.
type Dict struct {
	rec record
}

func (Dict) Kind() ValueKind { return ValueDict }

func (Dict) sealed() {}

// Len returns the number of entries.
func (d Dict) Len() int { return d.rec.len() }

// Get returns the value stored under key.
func (d Dict) Get(key string) (Value, bool) { return d.rec.get(key) }

// Keys returns the keys in insertion order.
func (d Dict) Keys() []string { return d.rec.keys() }

// All returns an iterator over the entries in insertion order.
func (d Dict) All() iter.Seq2[string, Value] { return d.rec.all() }

// DictBuilder accumulates the entries of a [Dict], rejecting duplicate keys.
type DictBuilder struct {
	rec record
}

// NewDictBuilder returns an empty DictBuilder.
func NewDictBuilder() *DictBuilder {
	return &DictBuilder{rec: newRecord()}
}

// Add appends an entry. It returns false without modifying the builder if
// key is already present.
func (b *DictBuilder) Add(key string, v Value) bool {
	return b.rec.insert(key, v)
}

// Has reports whether key has already been added.
func (b *DictBuilder) Has(key string) bool {
	_, ok := b.rec.get(key)

	return ok
}

// Dict returns the accumulated Dict. The builder must not be used afterward.
func (b *DictBuilder) Dict() Dict {
	d := Dict{rec: b.rec}
	b.rec = record{}

	return d
}

// record is an insertion-ordered string-keyed map shared by [Dict] and
// [Environment].
type record struct {
	m *linkedhashmap.Map
}

func newRecord() record {
	return record{m: linkedhashmap.New()}
}

func (r record) len() int {
	if r.m == nil {
		return 0
	}

	return r.m.Size()
}

func (r record) get(key string) (Value, bool) {
	if r.m == nil {
		return nil, false
	}

	v, ok := r.m.Get(key)
	if !ok {
		return nil, false
	}

	return v.(Value), true
}

// insert adds key only if absent.
func (r record) insert(key string, v Value) bool {
	if _, exists := r.m.Get(key); exists {
		return false
	}

	r.m.Put(key, v)

	return true
}

func (r record) keys() []string {
	if r.m == nil {
		return nil
	}

	keys := make([]string, 0, r.m.Size())
	for _, k := range r.m.Keys() {
		keys = append(keys, k.(string))
	}

	return keys
}

func (r record) all() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if r.m == nil {
			return
		}

		it := r.m.Iterator()
		for it.Next() {
			if !yield(it.Key().(string), it.Value().(Value)) {
				return
			}
		}
	}
}

func (r record) clone() record {
	c := newRecord()

	for k, v := range r.all() {
		c.m.Put(k, v)
	}

	return c
}

// ParseNumber converts a number lexeme to its integer value. The only valid
// shapes are "0" and "0" followed by one of 'o', 'O', '0' and one or more
// octal digits; the value is the base-8 reading of the digits after the
// two-character prefix.
func ParseNumber(lexeme string) (*big.Int, bool) {
	if lexeme == "0" {
		return new(big.Int), true
	}

	if len(lexeme) < 3 || lexeme[0] != '0' {
		return nil, false
	}

	switch lexeme[1] {
	case 'o', 'O', '0':
	default:
		return nil, false
	}

	digits := lexeme[2:]
	for i := range len(digits) {
		if !isOctalDigit(digits[i]) {
			return nil, false
		}
	}

	n, ok := new(big.Int).SetString(digits, 8)

	return n, ok
}
