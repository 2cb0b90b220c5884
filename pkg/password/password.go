// Package password 凭证哈希与校验。
//
// 新写入的密码一律使用 bcrypt；历史种子数据中的明文密码在开启兼容时按常量时间比较。
package password

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch 密码不匹配
var ErrMismatch = errors.New("password mismatch")

var hashPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// IsHashed 存储值是否为 bcrypt 哈希
func IsHashed(stored string) bool {
	for _, p := range hashPrefixes {
		if strings.HasPrefix(stored, p) {
			return true
		}
	}
	return false
}

// Hasher 密码哈希器
type Hasher struct {
	cost        int
	allowLegacy bool
}

// NewHasher 创建哈希器；cost 非法时回退到 bcrypt.DefaultCost
func NewHasher(cost int, allowLegacy bool) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost, allowLegacy: allowLegacy}
}

// Hash 生成 bcrypt 哈希
func (h *Hasher) Hash(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify 校验提交的密码，不匹配时返回 ErrMismatch
func (h *Hasher) Verify(stored, submitted string) error {
	if stored == "" || submitted == "" {
		return ErrMismatch
	}
	if IsHashed(stored) {
		err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(submitted))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}
	if !h.allowLegacy {
		return ErrMismatch
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) != 1 {
		return ErrMismatch
	}
	return nil
}
