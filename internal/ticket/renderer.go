// Package ticket renders the downloadable document for a confirmed reservation.
package ticket

import (
	"bytes"
	"fmt"
	"time"

	"event-reservation/internal/model"

	"github.com/go-pdf/fpdf"
)

const ContentTypePDF = "application/pdf"

type Renderer interface {
	Render(fields model.TicketFields) (*model.Ticket, error)
}

type PDFRenderer struct{}

func NewPDFRenderer() Renderer {
	return &PDFRenderer{}
}

// FieldsFromView 從預約讀取模型取出票券內容
func FieldsFromView(view *model.ReservationView) model.TicketFields {
	fields := model.TicketFields{
		ReservationID: view.ID,
		Status:        view.Status,
	}
	if view.Event != nil {
		fields.EventTitle = view.Event.Title
		fields.EventDateTime = view.Event.DateTime
		fields.EventLocation = view.Event.Location
	}
	if view.User != nil {
		fields.ParticipantName = view.User.Name
		fields.ParticipantEmail = view.User.Email
	}
	return fields
}

// Lines returns the ticket body in print order.
func Lines(fields model.TicketFields) []string {
	return []string{
		"Event: " + fields.EventTitle,
		"Date: " + fields.EventDateTime.UTC().Format(time.RFC1123),
		"Location: " + fields.EventLocation,
		"",
		fmt.Sprintf("Participant: %s (%s)", fields.ParticipantName, fields.ParticipantEmail),
		"Reservation ID: " + fields.ReservationID.String(),
		"Status: " + string(fields.Status),
	}
}

func Filename(id fmt.Stringer) string {
	return fmt.Sprintf("ticket-%s.pdf", id)
}

func (r *PDFRenderer) Render(fields model.TicketFields) (*model.Ticket, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Event Reservation Ticket", true)
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Event Reservation Ticket", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 14)
	for _, line := range Lines(fields) {
		if line == "" {
			pdf.Ln(4)
			continue
		}
		pdf.MultiCell(0, 8, tr(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render ticket pdf: %w", err)
	}

	return &model.Ticket{
		Filename:    Filename(fields.ReservationID),
		ContentType: ContentTypePDF,
		Content:     buf.Bytes(),
	}, nil
}
