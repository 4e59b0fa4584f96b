package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/finance"
	"github.com/arredo/backoffice-api/internal/mapper"
	"github.com/arredo/backoffice-api/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	exportSheet        = "Deals"
	moneyFormat        = `€ #,##0.00`
	percentFormat      = "0.00%"
	dateFormat         = "yyyy-mm-dd"
	moneyColumnWidth   = 18
	percentColumnWidth = 15
	defaultColumnWidth = 20
)

var hundredPercent = decimal.NewFromInt(100)

type exportColumnKind int

const (
	textColumn exportColumnKind = iota
	moneyColumn
	percentColumn
	dateColumn
)

type exportColumn struct {
	header string
	kind   exportColumnKind
	value  func(d *domain.Deal, f finance.DealFinancials) interface{}
}

var dealExportColumns = []exportColumn{
	{"ID", textColumn, func(d *domain.Deal, _ finance.DealFinancials) interface{} { return d.ID.String() }},
	{"Title", textColumn, func(d *domain.Deal, _ finance.DealFinancials) interface{} { return d.Title }},
	{"Stage", textColumn, func(d *domain.Deal, _ finance.DealFinancials) interface{} { return d.Stage.Label() }},
	{"Client", textColumn, func(d *domain.Deal, _ finance.DealFinancials) interface{} { return d.ClientName }},
	{"Salesperson", textColumn, func(d *domain.Deal, _ finance.DealFinancials) interface{} {
		if d.Salesperson == nil {
			return "N/A"
		}
		return d.Salesperson.DisplayName()
	}},
	{"Created", dateColumn, func(d *domain.Deal, _ finance.DealFinancials) interface{} { return exportDate(d.CreatedAt) }},
	{"Product Value", moneyColumn, func(d *domain.Deal, _ finance.DealFinancials) interface{} { return mapper.Money(d.EstimatedProductValue) }},
	{"Service Revenue", moneyColumn, func(_ *domain.Deal, f finance.DealFinancials) interface{} { return mapper.Money(f.ServiceRevenue) }},
	{"Total Value", moneyColumn, func(_ *domain.Deal, f finance.DealFinancials) interface{} { return mapper.Money(f.TotalValue) }},
	{"Material Cost", moneyColumn, func(d *domain.Deal, _ finance.DealFinancials) interface{} { return mapper.Money(d.EstimatedProductCost) }},
	{"Labor Cost", moneyColumn, func(_ *domain.Deal, f finance.DealFinancials) interface{} { return mapper.Money(f.LaborCost) }},
	{"Total Cost", moneyColumn, func(_ *domain.Deal, f finance.DealFinancials) interface{} { return mapper.Money(f.TotalCost) }},
	{"Margin EUR", moneyColumn, func(_ *domain.Deal, f finance.DealFinancials) interface{} { return mapper.Money(f.MarginAmount) }},
	{"Margin %", percentColumn, func(_ *domain.Deal, f finance.DealFinancials) interface{} {
		return f.MarginPercent.Div(hundredPercent).Round(4).InexactFloat64()
	}},
}

// ExportService renders the deal report workbook
type ExportService struct {
	dealRepo *repository.DealRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewExportService(dealRepo *repository.DealRepository, logger *zap.Logger) *ExportService {
	return &ExportService{dealRepo: dealRepo, logger: logger, now: time.Now}
}

// DealReportFilename is the download name of the report rendered on the given day
func DealReportFilename(day time.Time) string {
	return fmt.Sprintf("report_deals_%s.xlsx", day.Format("2006-01-02"))
}

// DealReport renders every deal, ordered by pipeline stage and then most recently updated,
// and returns the workbook bytes with the suggested filename.
func (s *ExportService) DealReport(ctx context.Context) ([]byte, string, error) {
	deals, err := s.dealRepo.FindAll(ctx, nil)
	if err != nil {
		return nil, "", translate(err, "load deals")
	}
	sortForExport(deals)

	buf, err := renderDealWorkbook(deals)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render deal report: %w", err)
	}

	s.logger.Info("deal report rendered", zap.Int("deals", len(deals)), zap.Int("bytes", buf.Len()))
	return buf.Bytes(), DealReportFilename(s.now()), nil
}

// exportDate drops the time of day and the zone, keeping the UTC calendar date
func exportDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sortForExport(deals []domain.Deal) {
	sort.SliceStable(deals, func(i, j int) bool {
		oi, oj := deals[i].Stage.Order(), deals[j].Stage.Order()
		if oi != oj {
			return oi < oj
		}
		return deals[i].UpdatedAt.After(deals[j].UpdatedAt)
	})
}

func renderDealWorkbook(deals []domain.Deal) (*bytes.Buffer, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName(wb.GetSheetName(0), exportSheet); err != nil {
		return nil, err
	}

	headerStyle, err := wb.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	money := moneyFormat
	moneyStyle, err := wb.NewStyle(&excelize.Style{CustomNumFmt: &money})
	if err != nil {
		return nil, err
	}
	percent := percentFormat
	percentStyle, err := wb.NewStyle(&excelize.Style{CustomNumFmt: &percent})
	if err != nil {
		return nil, err
	}
	date := dateFormat
	dateStyle, err := wb.NewStyle(&excelize.Style{CustomNumFmt: &date})
	if err != nil {
		return nil, err
	}

	lastRow := len(deals) + 1
	for c, col := range dealExportColumns {
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return nil, err
		}
		if err := wb.SetCellValue(exportSheet, name+"1", col.header); err != nil {
			return nil, err
		}

		width := float64(defaultColumnWidth)
		style := 0
		switch col.kind {
		case moneyColumn:
			width, style = moneyColumnWidth, moneyStyle
		case percentColumn:
			width, style = percentColumnWidth, percentStyle
		case dateColumn:
			style = dateStyle
		}
		if err := wb.SetColWidth(exportSheet, name, name, width); err != nil {
			return nil, err
		}
		if style != 0 && lastRow > 1 {
			if err := wb.SetCellStyle(exportSheet, name+"2", fmt.Sprintf("%s%d", name, lastRow), style); err != nil {
				return nil, err
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(dealExportColumns))
	if err != nil {
		return nil, err
	}
	if err := wb.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	for i := range deals {
		d := &deals[i]
		f := finance.ForDeal(d)
		row := make([]interface{}, len(dealExportColumns))
		for c, col := range dealExportColumns {
			row[c] = col.value(d, f)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := wb.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	return wb.WriteToBuffer()
}
