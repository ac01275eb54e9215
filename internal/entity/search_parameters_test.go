package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchParameters_WithDoesNotMutate(t *testing.T) {
	base := NewSearchParameters(Param{Key: "query", Value: "sushi"}, Param{Key: "limit", Value: "10"})
	next := base.With("cursor", "abc")

	assert.Equal(t, 2, base.Len())
	assert.False(t, base.Has("cursor"))
	assert.Equal(t, []string{"query", "limit", "cursor"}, next.Keys())

	cursor, ok := next.Get("cursor")
	assert.True(t, ok)
	assert.Equal(t, "abc", cursor)
}

func TestSearchParameters_Encode(t *testing.T) {
	params := NewSearchParameters(
		Param{Key: "near", Value: "New York"},
		Param{Key: "fields", Value: "fsq_id,name"},
	)
	assert.Equal(t, "near=New+York&fields=fsq_id%2Cname", params.Encode())
	assert.Equal(t, "New York", params.Values().Get("near"))
}

func TestPhoto_URL(t *testing.T) {
	p := Photo{Prefix: "https://fastly.4sqi.net/img/general/", Suffix: "/abc.jpg"}
	assert.Equal(t, "https://fastly.4sqi.net/img/general/400x400/abc.jpg", p.URL("400x400"))
}
