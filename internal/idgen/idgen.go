// Package idgen 生成地点与业主的可读业务编号。
//
// 编号格式：
//   - 地点：SHORTCODE-TYPELETTER+YY-SEQ，例如 ABC-M26-001（SEQ 三位，按自然年全局递增）
//   - 业主：OWN-YY-SEQ，例如 OWN-26-0001（SEQ 四位，按自然年递增）
//
// 生成结果只是乐观的提示值，不做预占：并发创建时两个请求可能算出同一编号，
// 以数据库主键约束为准，调用方在撞键后重新生成（见 Retry）。
package idgen

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrInvalidShortCode  = errors.New("short code must be exactly 3 letters")
	ErrSequenceExhausted = errors.New("sequence exhausted for the current year")

	// 以下两个错误均匹配 ErrInvalidShortCode
	ErrShortCodeLength  = fmt.Errorf("%w: length must be 3", ErrInvalidShortCode)
	ErrShortCodeCharset = fmt.Errorf("%w: only A-Z allowed", ErrInvalidShortCode)
)

// Scope 编号序列的作用域（地点 / 业主）
type Scope struct {
	name   string
	width  int
	prefix func(year string) string // LIKE 模式
	match  func(year string) *regexp.Regexp
}

var (
	// ScopeLocation 地点编号，序列三位，跨所有短码全局递增
	ScopeLocation = Scope{
		name:  "location",
		width: 3,
		prefix: func(year string) string {
			return "%-_" + year + "-%"
		},
		// 只校验序列依赖的定宽部分，历史数据中的非字母短码或类型字母同样计入
		match: func(year string) *regexp.Regexp {
			return regexp.MustCompile(`^[^-]+-.` + regexp.QuoteMeta(year) + `-(\d{3})$`)
		},
	}

	// ScopeOwner 业主编号，序列四位
	ScopeOwner = Scope{
		name:  "owner",
		width: 4,
		prefix: func(year string) string {
			return "OWN-" + year + "-%"
		},
		match: func(year string) *regexp.Regexp {
			return regexp.MustCompile(`^OWN-` + regexp.QuoteMeta(year) + `-(\d{4})$`)
		},
	}
)

// String 作用域名称
func (s Scope) String() string { return s.name }

// Width 序列位数
func (s Scope) Width() int { return s.width }

// Pattern 指定年份的 SQL LIKE 模式
func (s Scope) Pattern(year string) string { return s.prefix(year) }

// Max 序列允许的最大值（999 / 9999）
func (s Scope) Max() int {
	n := 1
	for i := 0; i < s.width; i++ {
		n *= 10
	}
	return n - 1
}

// Source 提供某作用域下已存在的编号
type Source interface {
	// IDsLike 返回作用域内匹配 LIKE 模式的全部编号
	IDsLike(ctx context.Context, scope Scope, pattern string) ([]string, error)
}

// Option 生成器选项
type Option func(*Generator)

// WithClock 注入时钟，测试时固定年份
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// Generator 业务编号生成器
type Generator struct {
	src Source
	now func() time.Time
}

// New 创建生成器
func New(src Source, opts ...Option) *Generator {
	g := &Generator{src: src, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TypeLetter 地点类型 → 编号中的类型字母。
// MALL→M、HOTEL→H、OTHER 与空值→O，其它取首字符大写。
func TypeLetter(category string) string {
	upper := strings.ToUpper(strings.TrimSpace(category))
	switch upper {
	case "", "OTHER":
		return "O"
	case "MALL":
		return "M"
	case "HOTEL":
		return "H"
	}
	for _, r := range upper {
		return string(r)
	}
	return "O"
}

// YearSuffix 年份后两位，例如 2026 → "26"
func YearSuffix(t time.Time) string {
	return fmt.Sprintf("%02d", t.Year()%100)
}

// YearSuffix 当前时钟下的年份后两位
func (g *Generator) YearSuffix() string {
	return YearSuffix(g.now())
}

// NextSequence 计算作用域在指定年份的下一个序列号：现有最大值 + 1，无记录时为 1。
// 序列部分不是定宽数字的编号被忽略。
func (g *Generator) NextSequence(ctx context.Context, scope Scope, year string) (int, error) {
	ids, err := g.src.IDsLike(ctx, scope, scope.Pattern(year))
	if err != nil {
		return 0, fmt.Errorf("查询 %s 编号失败: %w", scope, err)
	}

	re := scope.match(year)
	maxSeq := 0
	for _, id := range ids {
		m := re.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > maxSeq {
			maxSeq = n
		}
	}

	next := maxSeq + 1
	if next > scope.Max() {
		return 0, fmt.Errorf("%w: %s %s", ErrSequenceExhausted, scope, year)
	}
	return next, nil
}

// NormalizeShortCode 去空白、转大写并校验为 3 个字母
func NormalizeShortCode(shortCode string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(shortCode))
	if utf8.RuneCountInString(code) != 3 {
		return "", ErrShortCodeLength
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return "", ErrShortCodeCharset
		}
	}
	return code, nil
}

// LocationID 生成下一个地点编号
func (g *Generator) LocationID(ctx context.Context, shortCode, category string) (string, error) {
	code, err := NormalizeShortCode(shortCode)
	if err != nil {
		return "", err
	}
	year := g.YearSuffix()
	seq, err := g.NextSequence(ctx, ScopeLocation, year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s%s-%0*d", code, TypeLetter(category), year, ScopeLocation.width, seq), nil
}

// OwnerID 生成下一个业主编号
func (g *Generator) OwnerID(ctx context.Context) (string, error) {
	year := g.YearSuffix()
	seq, err := g.NextSequence(ctx, ScopeOwner, year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("OWN-%s-%0*d", year, ScopeOwner.width, seq), nil
}
