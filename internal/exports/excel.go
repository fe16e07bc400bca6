package exports

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/requests"
)

const registerSheet = "Requests"

var registerColumns = []string{
	"Code", "Title", "Status", "Priority", "Requester", "Designer", "Published Link", "Created", "Updated",
}

// WriteRegister renders the full request register as a styled workbook.
func WriteRegister(w io.Writer, items []requests.Request) error {
	file := excelize.NewFile()
	defer file.Close()

	file.SetSheetName("Sheet1", registerSheet)

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range registerColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(registerSheet, cell, col)
		file.SetCellStyle(registerSheet, cell, cell, headerStyle)
	}
	file.SetPanes(registerSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	for rowIdx, req := range items {
		row := rowIdx + 2
		values := []any{
			req.Code,
			req.Title,
			string(req.Status),
			string(req.Priority),
			req.RequesterID.String(),
			formatOptionalID(req.DesignerID),
			formatOptionalString(req.PublishedLink),
			req.CreatedAt.Format(time.RFC3339),
			req.UpdatedAt.Format(time.RFC3339),
		}
		for colIdx, val := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, row)
			file.SetCellValue(registerSheet, cell, val)
		}
	}

	if len(items) > 0 {
		lastCol, _ := excelize.CoordinatesToCellName(len(registerColumns), 1)
		file.AutoFilter(registerSheet, "A1:"+lastCol, nil)
	}
	file.SetColWidth(registerSheet, "A", "B", 24)
	file.SetColWidth(registerSheet, "C", "G", 18)
	file.SetColWidth(registerSheet, "H", "I", 22)

	return file.Write(w)
}
