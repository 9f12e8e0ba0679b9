// Package receipts формирует PDF-квитанцию покупки с QR-кодом на страницу события.
package receipts

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/sidegames-golf/sidegames/models"
	"github.com/sidegames-golf/sidegames/utils"
)

// Длинные названия не помещаются в строку Letter.
const maxEventNameLength = 70

// Receipt — данные для квитанции.
type Receipt struct {
	Purchase      models.Purchase
	Event         models.Event
	TourName      string
	LocationName  string
	LocationPhone string
	BuyerName     string
	BuyerEmail    string
}

// EventLink — ссылка на дашборд с предвыбранным событием.
func EventLink(publicURL string, e models.Event) string {
	q := url.Values{}
	q.Set("event_id", strconv.FormatInt(e.ID, 10))
	q.Set("tour_id", strconv.FormatInt(e.TourID, 10))
	q.Set("location_id", strconv.FormatInt(e.LocationID, 10))
	return strings.TrimRight(publicURL, "/") + "/Dashboard?" + q.Encode()
}

// Render возвращает PDF квитанции.
func Render(r Receipt, publicURL string) ([]byte, error) {
	link := EventLink(publicURL, r.Event)
	qrPNG, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, "sidegames.golf receipt", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Purchase #%d", r.Purchase.ID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Date: "+r.Purchase.PurchaseDate.Format("January 2, 2006 15:04"), "", 1, "L", false, 0, "")
	if r.BuyerName != "" || r.BuyerEmail != "" {
		pdf.CellFormat(0, 7, tr(strings.TrimSpace(r.BuyerName+" "+r.BuyerEmail)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, tr(utils.TruncateText(r.Event.Name, maxEventNameLength)), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, utils.FormatDate(r.Event.EventDate), "", 1, "L", false, 0, "")
	if r.TourName != "" {
		pdf.CellFormat(0, 7, tr("Tour: "+r.TourName), "", 1, "L", false, 0, "")
	}
	if r.LocationName != "" {
		pdf.CellFormat(0, 7, tr("Location: "+r.LocationName), "", 1, "L", false, 0, "")
	}
	if r.LocationPhone != "" {
		pdf.CellFormat(0, 7, "Pro shop: "+utils.FormatPhone(r.LocationPhone), "", 1, "L", false, 0, "")
	}
	if r.Event.CourseName != nil && *r.Event.CourseName != "" {
		pdf.CellFormat(0, 7, tr("Course: "+*r.Event.CourseName), "", 1, "L", false, 0, "")
	}

	imgOpts := gofpdf.ImageOptions{ImageType: "png"}
	pdf.RegisterImageOptionsReader("qr", imgOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 40, 35, 35, false, imgOpts, 0, link)
	pdf.Ln(6)

	pdf.SetFillColor(240, 245, 240)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(120, 8, "Side game", "B", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Fee", "B", 1, "R", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, row := range r.Purchase.SideGamesData.SelectedRows() {
		pdf.CellFormat(120, 7, tr(row.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, row.Cost.Format(), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(120, 8, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, r.Purchase.TotalCost.Format(), "T", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	method := "-"
	if r.Purchase.PaymentMethod != nil {
		method = utils.Capitalize(*r.Purchase.PaymentMethod)
	}
	ref := "-"
	if r.Purchase.PaymentReference != nil {
		ref = *r.Purchase.PaymentReference
	}
	pdf.CellFormat(0, 6, "Payment method: "+method, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Payment reference: "+ref, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Status: "+utils.Capitalize(string(r.Purchase.Status)), "", 1, "L", false, 0, "")

	pdf.SetY(-30)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 10, "Scan the code to open the event on sidegames.golf.", "T", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt PDF: %w", err)
	}
	return buf.Bytes(), nil
}
