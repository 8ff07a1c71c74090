package util

import (
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"7d", 7 * 24 * time.Hour},
		{"30", 30 * time.Second},
		{"5m", 5 * time.Minute},
		{" 1h ", time.Hour},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseDuration("xd")
	assert.Error(t, err)
	assert.Equal(t, time.Minute, MustParseDuration("bogus", time.Minute))
	assert.Equal(t, time.Minute, MustParseDuration("", time.Minute))
}

func TestSplitTags_Empty(t *testing.T) {
	assert.Equal(t, []string{}, SplitTags(""))
	assert.Equal(t, "", JoinTags(nil))
	assert.Equal(t, "a,b", JoinTags([]string{" a ", "", "b"}))
}

// 不含分隔符的标签序列经存储往返后保持原样与顺序
func TestProperty_TagsRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("split(join(tags)) == tags", prop.ForAll(
		func(tags []string) bool {
			got := SplitTags(JoinTags(tags))
			if len(got) != len(tags) {
				return false
			}
			for i := range tags {
				if got[i] != tags[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString().SuchThat(func(s string) bool {
			return s != "" && !strings.Contains(s, TagSeparator)
		})),
	))

	properties.TestingRun(t)
}
