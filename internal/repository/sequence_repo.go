package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Angithapraveen/smart-valet/internal/idgen"
	"github.com/Angithapraveen/smart-valet/internal/model"
)

// SequenceRepository 为编号生成器提供已存在的编号
type SequenceRepository interface {
	idgen.Source
}

type sequenceRepo struct {
	db *gorm.DB
}

// NewSequenceRepo 创建 SequenceRepository 实例
func NewSequenceRepo(db *gorm.DB) SequenceRepository {
	return &sequenceRepo{db: db}
}

// IDsLike 地点编号取自 locations.location_id，业主编号取自 users.user_id
func (r *sequenceRepo) IDsLike(ctx context.Context, scope idgen.Scope, pattern string) ([]string, error) {
	var (
		ids []string
		q   *gorm.DB
	)
	switch scope.String() {
	case idgen.ScopeLocation.String():
		q = r.db.WithContext(ctx).Model(&model.Location{}).
			Where("location_id LIKE ?", pattern).
			Pluck("location_id", &ids)
	case idgen.ScopeOwner.String():
		q = r.db.WithContext(ctx).Model(&model.User{}).
			Where("user_id LIKE ?", pattern).
			Pluck("user_id", &ids)
	default:
		return nil, fmt.Errorf("未知的编号作用域: %s", scope)
	}
	return ids, q.Error
}
