package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type srcNote struct {
	ID    string
	Title string
	Tags  []string
}

type dstNote struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

func TestStructAssign_DeepCopiesSlices(t *testing.T) {
	src := &srcNote{ID: "1", Title: "t", Tags: []string{"a"}}
	dst := &dstNote{}

	require.NoError(t, StructAssign(src, dst))
	assert.Equal(t, "t", dst.Title)

	src.Tags[0] = "changed"
	assert.Equal(t, []string{"a"}, dst.Tags)
}

func TestStructToMap(t *testing.T) {
	m, err := StructToMap(dstNote{ID: "1", Title: "t", Tags: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, "t", m["title"])
	assert.Equal(t, []any{"x"}, m["tags"])
}
