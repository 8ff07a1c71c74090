// Package timex 提供可直接用于 gorm 与 JSON 的时间类型
package timex

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm/schema"
)

// JSONLayout 输出到接口的时间格式，ISO 8601 毫秒精度
const JSONLayout = "2006-01-02T15:04:05.000Z07:00"

var scanLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Time wraps time.Time so it persists as a native timestamp and renders as ISO 8601
// Time 封装 time.Time，数据库中存为原生时间类型，接口中输出 ISO 8601
type Time time.Time

// Now 当前时间，截断到毫秒，保证各数据库精度一致
func Now() Time {
	return Time(time.Now().Truncate(time.Millisecond))
}

func (t Time) Time() time.Time {
	return time.Time(t)
}

func (t Time) Unix() int64 {
	return time.Time(t).Unix()
}

func (t Time) UnixMilli() int64 {
	return time.Time(t).UnixMilli()
}

func (t Time) UnixMicro() int64 {
	return time.Time(t).UnixMicro()
}

func (t Time) UnixNano() int64 {
	return time.Time(t).UnixNano()
}

func (t Time) IsZero() bool {
	return time.Time(t).IsZero()
}

func (t Time) String() string {
	return time.Time(t).Format(JSONLayout)
}

// GormDataType 交给各方言选择对应的时间列类型
func (Time) GormDataType() string {
	return string(schema.Time)
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*t = Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	*t = Time(parsed)
	return nil
}

// Value 实现 driver.Valuer
func (t Time) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return time.Time(t), nil
}

// Scan 实现 sql.Scanner，兼容驱动返回 time.Time 或字符串
func (t *Time) Scan(v interface{}) error {
	switch value := v.(type) {
	case nil:
		*t = Time{}
		return nil
	case time.Time:
		*t = Time(value)
		return nil
	case []byte:
		return t.parse(string(value))
	case string:
		return t.parse(value)
	}
	return fmt.Errorf("timex: cannot scan %T into Time", v)
}

func (t *Time) parse(s string) error {
	for _, layout := range scanLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = Time(parsed)
			return nil
		}
	}
	return fmt.Errorf("timex: cannot parse %q", s)
}
