package ticket

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
)

// RenderPDF builds the printable boarding pass for a ticket.
func RenderPDF(t Ticket) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Boarding Pass", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, "OMNIBUS")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, "Boarding Pass")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, t.Booking.ID)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger : %s %s", t.Booking.Passenger.FirstName, t.Booking.Passenger.LastName),
		fmt.Sprintf("From      : %s (%s)", t.Route.Origin, cityCode(t.Route.Origin)),
		fmt.Sprintf("To        : %s (%s)", t.Route.Destination, cityCode(t.Route.Destination)),
		fmt.Sprintf("Departure : %s", t.Route.DepartureTime.Format("2006-01-02 15:04")),
		fmt.Sprintf("Arrival   : %s", t.Route.ArrivalTime.Format("2006-01-02 15:04")),
		fmt.Sprintf("Bus       : %s", t.Route.BusNumber),
		fmt.Sprintf("Seat      : %d", t.Booking.SeatNumber),
		fmt.Sprintf("Status    : %s", t.Booking.Status),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Present this pass at the gate. Valid for one passenger and one seat.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cityCode(city string) string {
	if len(city) < 3 {
		return strings.ToUpper(city)
	}
	return strings.ToUpper(city[:3])
}
