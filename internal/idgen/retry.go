package idgen

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrDuplicateID 多次生成的编号均已被占用
var ErrDuplicateID = errors.New("generated id already exists")

// Retry 执行 try，若返回的错误被 conflict 判定为编号冲突，则重新执行（try 内部负责重新生成编号），
// 最多 attempts 次。非冲突错误立即返回；次数用尽时返回同时匹配 ErrDuplicateID 与最后一次冲突的错误。
func Retry(ctx context.Context, attempts int, conflict func(error) bool, try func(attempt int) error) error {
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; ; attempt++ {
		err := try(attempt)
		if err == nil {
			return nil
		}
		if !conflict(err) {
			return err
		}
		if attempt >= attempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrDuplicateID, attempt, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
}

// LocationIDParts 地点编号拆解结果
type LocationIDParts struct {
	ShortCode  string
	TypeLetter string
	Year       string
	Sequence   string
}

// OwnerIDParts 业主编号拆解结果
type OwnerIDParts struct {
	Year     string
	Sequence string
}

var (
	locationIDRe = regexp.MustCompile(`^([A-Z]{3})-([A-Z])(\d{2})-(\d{3})$`)
	ownerIDRe    = regexp.MustCompile(`^OWN-(\d{2})-(\d{4})$`)
)

// ParseLocationID 拆解地点编号，格式不符时返回 false
func ParseLocationID(id string) (LocationIDParts, bool) {
	m := locationIDRe.FindStringSubmatch(id)
	if m == nil {
		return LocationIDParts{}, false
	}
	return LocationIDParts{ShortCode: m[1], TypeLetter: m[2], Year: m[3], Sequence: m[4]}, true
}

// ParseOwnerID 拆解业主编号，格式不符时返回 false
func ParseOwnerID(id string) (OwnerIDParts, bool) {
	m := ownerIDRe.FindStringSubmatch(id)
	if m == nil {
		return OwnerIDParts{}, false
	}
	return OwnerIDParts{Year: m[1], Sequence: m[2]}, true
}
