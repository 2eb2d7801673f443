// Package report renders order listings as Excel workbooks for export.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"stolik/internal/models"
)

const ordersSheet = "Orders"

var ordersHeader = []string{
	"ID", "Start", "End", "Status", "Cost", "User ID", "Tables", "Created At",
}

// WriteOrders renders orders as an xlsx workbook: one sheet, a bold
// header row, one row per order with its table ids joined.
func WriteOrders(w io.Writer, orders []models.Order) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", ordersSheet)

	if err := writeHeader(f); err != nil {
		return err
	}
	for i, o := range orders {
		if err := writeOrderRow(f, i+2, &o); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func writeHeader(f *excelize.File) error {
	for i, col := range ordersHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(ordersSheet, cell, col); err != nil {
			return err
		}
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(ordersHeader), 1)
		_ = f.SetCellStyle(ordersSheet, "A1", endCell, style)
	}
	return nil
}

func writeOrderRow(f *excelize.File, row int, o *models.Order) error {
	ids := make([]string, 0, len(o.Tables))
	for _, t := range o.Tables {
		ids = append(ids, strconv.FormatInt(t.ID, 10))
	}

	values := []any{
		o.ID,
		o.StartDatetime.Format("2006-01-02 15:04"),
		o.EndDatetime.Format("2006-01-02 15:04"),
		o.Status,
		o.Cost,
		o.UserID,
		strings.Join(ids, ", "),
		o.CreatedAt.Format("2006-01-02 15:04"),
	}
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(ordersSheet, cell, val); err != nil {
			return fmt.Errorf("write order %d: %w", o.ID, err)
		}
	}
	return nil
}
