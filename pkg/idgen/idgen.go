package idgen

import (
	"fmt"

	"github.com/sqids/sqids-go"
)

// sqidsEncoder 是用于生成和解码短 ID 的 Sqids 编码器实例。
var sqidsEncoder *sqids.Sqids

// DefaultAlphabet 是默认的字母表
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// EntityType 定义了不同实体在生成公共 ID 时的类型标识。
const (
	EntityTypeUser     uint64 = 1 // 用户实体的类型标识
	EntityTypeArticle  uint64 = 2 // 文章实体的类型标识
	EntityTypeCategory uint64 = 3 // 文章分类实体的类型标识
	EntityTypeTag      uint64 = 4 // 文章标签实体的类型标识
	EntityTypeComment  uint64 = 5 // 评论实体的类型标识
)

// InitSqidsEncoder 初始化 Sqids 编码器，必须在应用启动时调用一次。
func InitSqidsEncoder() error {
	s, err := sqids.New(
		sqids.Options{
			MinLength: 4,
			Alphabet:  DefaultAlphabet,
		},
	)
	if err != nil {
		return fmt.Errorf("初始化 Sqids 编码器失败: %w", err)
	}
	sqidsEncoder = s
	return nil
}

// GeneratePublicID 将数据库自增ID和实体类型编码为对外暴露的公共ID。
func GeneratePublicID(dbID uint, entityType uint64) (string, error) {
	if sqidsEncoder == nil {
		return "", fmt.Errorf("Sqids 编码器未初始化")
	}

	id, err := sqidsEncoder.Encode([]uint64{uint64(dbID), entityType})
	if err != nil {
		return "", fmt.Errorf("编码公共ID失败: %w", err)
	}

	return id, nil
}

// DecodePublicID 解码公共 ID，返回数据库ID和实体类型。
func DecodePublicID(publicID string) (dbID uint, entityType uint64, err error) {
	if sqidsEncoder == nil {
		return 0, 0, fmt.Errorf("Sqids 编码器未初始化")
	}

	numbers := sqidsEncoder.Decode(publicID)

	if len(numbers) != 2 {
		return 0, 0, fmt.Errorf("无法从公共ID解码出预期数量的数字(期望2个，得到%d个)", len(numbers))
	}

	return uint(numbers[0]), numbers[1], nil
}

// DecodePublicIDBatch 批量解码公共ID并校验每一个的实体类型。
// 入参为 nil 时返回 nil，保留"未提供"与"空列表"的区别。
func DecodePublicIDBatch(publicIDs []string, entityType uint64) ([]uint, error) {
	if publicIDs == nil {
		return nil, nil
	}
	dbIDs := make([]uint, len(publicIDs))
	for i, publicID := range publicIDs {
		dbID, decodedType, err := DecodePublicID(publicID)
		if err != nil {
			return nil, fmt.Errorf("解码公共ID '%s' 失败: %w", publicID, err)
		}
		if decodedType != entityType {
			return nil, fmt.Errorf("公共ID '%s' 的实体类型不匹配", publicID)
		}
		dbIDs[i] = dbID
	}
	return dbIDs, nil
}
