package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// 唯一约束名（与迁移脚本保持一致）
const (
	ConstraintLocationPK     = "locations_pkey"
	ConstraintUserPK         = "users_pkey"
	ConstraintUserEmail      = "users_email_id_key"
	ConstraintUserPhone      = "users_phone_number_key"
	ConstraintLocationAccess = "location_access_user_location_key"
)

var (
	// ErrDuplicateKey 违反唯一约束
	ErrDuplicateKey = errors.New("违反唯一约束")
	// ErrForeignKey 违反外键约束：引用的记录不存在
	ErrForeignKey = errors.New("违反外键约束")
)

// DuplicateKeyError 唯一约束冲突，携带约束名以便上层区分冲突字段
type DuplicateKeyError struct {
	Constraint string
	Err        error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("违反唯一约束 %s: %v", e.Constraint, e.Err)
}

func (e *DuplicateKeyError) Unwrap() error { return e.Err }

// Is 使 errors.Is(err, ErrDuplicateKey) 成立
func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

// Translate 将驱动层错误转换为可判定的领域错误，其它错误原样返回
func Translate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return &DuplicateKeyError{Constraint: pgErr.ConstraintName, Err: err}
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s: %w", ErrForeignKey, pgErr.ConstraintName, err)
	}
	return err
}

// IsDuplicate 是否违反指定唯一约束
func IsDuplicate(err error, constraint string) bool {
	var dup *DuplicateKeyError
	if !errors.As(err, &dup) {
		return false
	}
	return dup.Constraint == constraint
}
