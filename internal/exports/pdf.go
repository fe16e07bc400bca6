package exports

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/requests"
)

// WriteSummary renders a one-page PDF summary of a single request.
func WriteSummary(w io.Writer, req *requests.Request) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Design Request "+req.Code, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, "Generated "+time.Now().UTC().Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetTextColor(0, 0, 0)

	fields := []struct {
		label string
		value string
	}{
		{"Title", req.Title},
		{"Status", string(req.Status)},
		{"Priority", string(req.Priority)},
		{"Requester", req.RequesterID.String()},
		{"Designer", formatOptionalID(req.DesignerID)},
		{"Published link", formatOptionalString(req.PublishedLink)},
		{"Published at", formatOptionalTime(req.PublishedAt)},
		{"Created", req.CreatedAt.Format(time.RFC3339)},
		{"Updated", req.UpdatedAt.Format(time.RFC3339)},
	}

	pdf.SetFont("Arial", "", 10)
	for _, f := range fields {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(40, 8, f.label, "B", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 8, f.value, "B", 1, "L", false, 0, "")
	}

	if req.Description != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, "Description", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, req.Description, "", "L", false)
	}

	return pdf.Output(w)
}

func formatOptionalID(id *uuid.UUID) string {
	if id == nil {
		return "-"
	}
	return id.String()
}

func formatOptionalString(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.RFC3339)
}
