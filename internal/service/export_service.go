package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Angithapraveen/smart-valet/internal/repository"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("failed to generate excel file")

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response。
type ExportService interface {
	// ExportLocations 导出全部地点（含停用）为 Excel
	ExportLocations(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

const locationSheet = "Locations"

var locationHeaders = []string{
	"Location ID", "Name", "Short Code", "Type", "Address",
	"Valid From", "Valid To", "Status", "Created At",
}

// ═══════════════════════════════════════════════════════════
// ExportLocations
// ═══════════════════════════════════════════════════════════
//
// 输出格式：单个 Sheet，首行表头，其后每个地点一行（按创建时间倒序）

func (s *exportService) ExportLocations(ctx context.Context) (*bytes.Buffer, string, error) {
	locations, err := s.repo.Location.List(ctx)
	if err != nil {
		s.logger.Error("查询地点失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", locationSheet); err != nil {
		return nil, "", ErrExportGenerateFail
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range locationHeaders {
		c := cell(colName(i), 1)
		f.SetCellValue(locationSheet, c, h)
		f.SetCellStyle(locationSheet, c, c, headerStyle)
	}
	f.SetColWidth(locationSheet, "A", "A", 16)
	f.SetColWidth(locationSheet, "B", "B", 28)
	f.SetColWidth(locationSheet, "E", "E", 36)
	f.SetColWidth(locationSheet, "F", "I", 14)

	for i, loc := range locations {
		row := i + 2
		address, validTo := "", ""
		if loc.Address != nil {
			address = *loc.Address
		}
		if loc.ValidTo != nil {
			validTo = loc.ValidTo.String()
		}
		status := "Disabled"
		if loc.Status {
			status = "Enabled"
		}

		values := []interface{}{
			loc.LocationID, loc.LocationName, loc.LocationShortCode, loc.LocationType, address,
			loc.ValidFrom.String(), validTo, status, loc.CreatedAt.UTC().Format(time.RFC3339),
		}
		for col, v := range values {
			f.SetCellValue(locationSheet, cell(colName(col), row), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("locations_%s.xlsx", s.now().Format("20060102"))
	return buf, filename, nil
}

// colName 0-based 列号 → 列名
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
