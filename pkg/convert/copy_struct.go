package convert

import (
	"github.com/bytedance/sonic"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// StructAssign
// dst 目标结构体，src 源结构体
// 它会把src与dst的相同字段名的值，复制到dst中
func StructAssign(src any, dst any) error {
	if err := copier.CopyWithOption(dst, src, copier.Option{DeepCopy: true}); err != nil {
		return errors.Wrap(err, "struct assign failed")
	}
	return nil
}

// StructToMap 结构体按 json 标签转为 map
func StructToMap(param any) (map[string]any, error) {
	data := map[string]any{}
	str, err := sonic.Marshal(param)
	if err != nil {
		return nil, errors.Wrap(err, "marshal struct failed")
	}
	if err := sonic.Unmarshal(str, &data); err != nil {
		return nil, errors.Wrap(err, "unmarshal map failed")
	}
	return data, nil
}
