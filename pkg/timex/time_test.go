package timex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTime_UnixMethods(t *testing.T) {
	// Create a fixed time
	// 创建一个固定时间
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tt := Time(now)

	assert.Equal(t, now.Unix(), tt.Unix())
	assert.Equal(t, now.UnixMilli(), tt.UnixMilli())
	assert.Equal(t, now.UnixMicro(), tt.UnixMicro())
	assert.Equal(t, now.UnixNano(), tt.UnixNano())
}

func TestTime_JSON(t *testing.T) {
	tt := Time(time.Date(2025, 10, 22, 9, 30, 0, 123000000, time.UTC))

	data, err := tt.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2025-10-22T09:30:00.123Z"`, string(data))

	var back Time
	require.NoError(t, back.UnmarshalJSON(data))
	assert.True(t, back.Time().Equal(tt.Time()))

	zero, err := Time{}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(zero))
}

func TestTime_Scan(t *testing.T) {
	want := time.Date(2025, 10, 22, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   interface{}
	}{
		{"time", want},
		{"rfc3339", "2025-10-22T09:30:00Z"},
		{"sqlite text", []byte("2025-10-22 09:30:00+00:00")},
		{"naive", "2025-10-22 09:30:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Time
			require.NoError(t, got.Scan(tt.in))
			assert.True(t, got.Time().Equal(want), got.String())
		})
	}

	var bad Time
	assert.Error(t, bad.Scan(42))
}

func TestNow_TruncatedToMillisecond(t *testing.T) {
	n := Now()
	assert.Zero(t, n.Time().Nanosecond()%int(time.Millisecond))
}
