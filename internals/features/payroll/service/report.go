package service

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// BuildPayoutPDF merender laporan payout satu halaman:
// judul nama teacher, baris total, QR pembayaran, dan bukti transfer.
// Kedua gambar sudah harus ternormalisasi ke PNG sebelum masuk sini.
func BuildPayoutPDF(teacherName string, total decimal.Decimal, period string, qrPNG, receiptPNG []byte) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payroll "+teacherName, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, fmt.Sprintf("Payroll - %s", teacherName), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 13)
	pdf.CellFormat(0, 9, fmt.Sprintf("Total: %s", total.StringFixed(2)), "", 1, "C", false, 0, "")
	if period != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 7, fmt.Sprintf("Periode: %s", period), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}

	// QR pembayaran (kiri) + bukti transfer (kanan)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(95, 7, "QR Pembayaran", "", 0, "C", false, 0, "")
	pdf.CellFormat(95, 7, "Bukti Transfer", "", 1, "C", false, 0, "")

	y := pdf.GetY() + 2
	pdf.RegisterImageOptionsReader("payment-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("payment-qr", 20, y, 75, 0, false, opts, 0, "")
	pdf.RegisterImageOptionsReader("receipt", opts, bytes.NewReader(receiptPNG))
	pdf.ImageOptions("receipt", 115, y, 75, 0, false, opts, 0, "")

	if pdf.Err() {
		return nil, fmt.Errorf("gagal merender PDF: %v", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("gagal menulis PDF: %w", err)
	}
	return buf.Bytes(), nil
}
