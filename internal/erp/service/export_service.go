package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/repository"
)

// ExportService 进度报表导出：xlsx给在线预览，GBK编码CSV给本地Excel
type ExportService struct {
	repos *repository.Repositories
}

func NewExportService(repos *repository.Repositories) *ExportService {
	return &ExportService{repos: repos}
}

var progressExportHeaders = []string{
	"订单编号", "订单标题", "订单状态", "SKU", "产品名称",
	"采购进度(%)", "卡片进度(%)", "辅料进度(%)", "检验状态", "检验结果",
}

type progressExportRow struct {
	orderNo     string
	title       string
	status      string
	sku         string
	productName string
	procPct     int
	cardPct     int
	accPct      int
	inspStatus  string
	inspResult  string
}

func (s *ExportService) collectRows(ctx context.Context) ([]progressExportRow, error) {
	inspections, _, err := s.repos.Inspection.FindAll(ctx, 0, 0, nil)
	if err != nil {
		return nil, err
	}

	rows := make([]progressExportRow, 0, len(inspections))
	for _, insp := range inspections {
		row := progressExportRow{
			sku:         insp.SKU,
			productName: insp.ProductName,
			procPct:     insp.ProcurementPercent,
			cardPct:     insp.CardPercent,
			accPct:      insp.AccessoryPercent,
			inspStatus:  insp.Status,
			inspResult:  insp.Result,
		}
		if o, err := s.repos.Order.FindByID(ctx, insp.OrderID); err == nil {
			row.orderNo = o.OrderNo
			row.title = o.Title
			row.status = o.Status
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ExportProgressXLSX 导出进度总表为xlsx
func (s *ExportService) ExportProgressXLSX(ctx context.Context) (*excelize.File, string, error) {
	rows, err := s.collectRows(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("collect rows: %w", err)
	}

	f := excelize.NewFile()
	sheet := "进度总表"
	f.SetSheetName("Sheet1", sheet)

	// 表头样式: 加粗
	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for i, h := range progressExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, r := range rows {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.orderNo)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.title)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.status)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.sku)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.productName)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.procPct)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.cardPct)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), r.accPct)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), r.inspStatus)
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), r.inspResult)
	}

	colWidths := []float64{14, 24, 12, 14, 20, 12, 12, 12, 10, 10}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("进度总表_%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}

// ExportProgressCSV 导出进度总表为CSV
// UTF-8 → GBK，本地Excel直接打开不乱码
func (s *ExportService) ExportProgressCSV(ctx context.Context) ([]byte, string, error) {
	rows, err := s.collectRows(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("collect rows: %w", err)
	}

	var buf bytes.Buffer
	gbkWriter := transform.NewWriter(&buf, simplifiedchinese.GBK.NewEncoder())
	w := csv.NewWriter(gbkWriter)

	if err := w.Write(progressExportHeaders); err != nil {
		return nil, "", err
	}
	for _, r := range rows {
		record := []string{
			r.orderNo, r.title, r.status, r.sku, r.productName,
			fmt.Sprintf("%d", r.procPct),
			fmt.Sprintf("%d", r.cardPct),
			fmt.Sprintf("%d", r.accPct),
			r.inspStatus, r.inspResult,
		}
		if err := w.Write(record); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}
	if err := gbkWriter.Close(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("进度总表_%s.csv", time.Now().Format("20060102"))
	return buf.Bytes(), filename, nil
}
