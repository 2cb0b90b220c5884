package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslate_UniqueViolation(t *testing.T) {
	raw := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: ConstraintUserEmail})

	err := Translate(raw)
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("期望 ErrDuplicateKey，实际: %v", err)
	}
	if !IsDuplicate(err, ConstraintUserEmail) {
		t.Error("期望识别出邮箱唯一约束")
	}
	if IsDuplicate(err, ConstraintUserPK) {
		t.Error("不应识别为主键约束")
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		t.Error("转换后仍应能取到原始 PgError")
	}
}

func TestTranslate_ForeignKey(t *testing.T) {
	err := Translate(&pgconn.PgError{Code: "23503", ConstraintName: "location_access_location_id_fkey"})
	if !errors.Is(err, ErrForeignKey) {
		t.Fatalf("期望 ErrForeignKey，实际: %v", err)
	}
}

func TestTranslate_Passthrough(t *testing.T) {
	if Translate(nil) != nil {
		t.Error("nil 应原样返回")
	}

	plain := errors.New("connection reset")
	if Translate(plain) != plain {
		t.Error("非 PgError 应原样返回")
	}

	other := &pgconn.PgError{Code: "40001"}
	if Translate(other) != error(other) {
		t.Error("其它 SQLSTATE 应原样返回")
	}
}
