package params

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination_Defaults(t *testing.T) {
	p := ParsePagination(url.Values{})
	assert.Equal(t, 15, p.Limit)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 0, p.Offset)
}

func TestParsePagination_ClampsLimit(t *testing.T) {
	p := ParsePagination(url.Values{"limit": {"100"}})
	assert.Equal(t, 30, p.Limit)

	p = ParsePagination(url.Values{"limit": {"-5"}})
	assert.Equal(t, 15, p.Limit)
}

func TestParsePagination_Offset(t *testing.T) {
	p := ParsePagination(url.Values{"limit": {"10"}, "page": {"3"}})
	assert.Equal(t, 20, p.Offset)
}

func TestParsePagination_IgnoresGarbage(t *testing.T) {
	p := ParsePagination(url.Values{"limit": {"abc"}, "page": {"zero"}})
	assert.Equal(t, 15, p.Limit)
	assert.Equal(t, 1, p.Page)
}

func TestComputeMeta(t *testing.T) {
	p := ParsePagination(url.Values{"limit": {"10"}, "page": {"2"}})
	p.ComputeMeta(35)

	assert.Equal(t, 35, p.Total)
	assert.Equal(t, 4, p.TotalPages)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)

	p.Page = 4
	p.ComputeMeta(35)
	assert.False(t, p.HasNext)
}
