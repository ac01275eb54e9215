package entity

import (
	"net/url"
	"strings"
)

// Param is one key/value pair of a places query string.
type Param struct {
	Key   string
	Value string
}

// SearchParameters is an ordered, immutable set of places query parameters.
type SearchParameters struct {
	params []Param
}

// NewSearchParameters copies the given pairs into a parameter set.
func NewSearchParameters(params ...Param) SearchParameters {
	cp := make([]Param, len(params))
	copy(cp, params)
	return SearchParameters{params: cp}
}

// With returns a copy with the pair appended; the receiver is left untouched.
func (s SearchParameters) With(key, value string) SearchParameters {
	cp := make([]Param, len(s.params), len(s.params)+1)
	copy(cp, s.params)
	return SearchParameters{params: append(cp, Param{Key: key, Value: value})}
}

// Get returns the first value stored under key.
func (s SearchParameters) Get(key string) (string, bool) {
	for _, p := range s.params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Has reports whether key is present.
func (s SearchParameters) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Keys lists the keys in insertion order.
func (s SearchParameters) Keys() []string {
	keys := make([]string, len(s.params))
	for i, p := range s.params {
		keys[i] = p.Key
	}
	return keys
}

// Pairs returns a copy of the ordered pairs.
func (s SearchParameters) Pairs() []Param {
	cp := make([]Param, len(s.params))
	copy(cp, s.params)
	return cp
}

// Len is the number of pairs.
func (s SearchParameters) Len() int { return len(s.params) }

// Values converts the set into url.Values.
func (s SearchParameters) Values() url.Values {
	values := make(url.Values, len(s.params))
	for _, p := range s.params {
		values.Add(p.Key, p.Value)
	}
	return values
}

// Encode renders the pairs as a query string, preserving insertion order.
func (s SearchParameters) Encode() string {
	var b strings.Builder
	for i, p := range s.params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}
