package helper

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

/*
BlobService adalah facade upload/fetch/hapus yang seragam untuk controller.

Semua aset inti lewat sini:
- screenshot bukti kelas (teacher)  → screenshots/<teacher_id>/...
- bukti transfer payout (admin)     → receipts/<teacher_id>/...
- QR pembayaran teacher             → qr/<teacher_id>/...
- PDF laporan payout                → reports/<teacher_id>/...
*/

type BlobService interface {
	UploadSessionScreenshot(ctx context.Context, teacherID uuid.UUID, fh *multipart.FileHeader, onProgress ProgressFunc) (publicURL, objectName string, err error)
	UploadPayoutReceipt(ctx context.Context, teacherID uuid.UUID, fh *multipart.FileHeader) (publicURL string, err error)
	UploadTeacherQR(ctx context.Context, teacherID uuid.UUID, png []byte) (publicURL string, err error)
	UploadTeacherQRFile(ctx context.Context, teacherID uuid.UUID, fh *multipart.FileHeader) (publicURL string, err error)
	UploadReportPDF(ctx context.Context, teacherID uuid.UUID, filename string, pdf []byte) (publicURL string, err error)

	// FetchBytes mengunduh object publik (untuk normalisasi gambar laporan).
	FetchBytes(ctx context.Context, publicURL string) ([]byte, error)

	DeleteByPublicURL(ctx context.Context, publicURL string) error
}

// --------------------------------------------------
// Implementasi berbasis Aliyun OSS
// --------------------------------------------------

type OSSBlobService struct {
	svc  *OSSService
	http *http.Client
}

// NewOSSBlobServiceFromEnv membuat instance dari ENV. prefix opsional (contoh: "uploads/")
func NewOSSBlobServiceFromEnv(prefix string) (*OSSBlobService, error) {
	s, err := NewOSSServiceFromEnv(prefix)
	if err != nil {
		return nil, err
	}
	return &OSSBlobService{
		svc:  s,
		http: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (b *OSSBlobService) UploadSessionScreenshot(ctx context.Context, teacherID uuid.UUID, fh *multipart.FileHeader, onProgress ProgressFunc) (string, string, error) {
	if fh == nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "File tidak ditemukan")
	}
	if teacherID == uuid.Nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "teacher_id tidak valid")
	}
	dir := fmt.Sprintf("screenshots/%s", teacherID)
	url, name, err := b.svc.UploadImageAsWebP(ctx, dir, fh, onProgress)
	if err != nil {
		return "", "", fiber.NewError(fiber.StatusBadGateway, "Gagal upload screenshot: "+err.Error())
	}
	return url, name, nil
}

func (b *OSSBlobService) UploadPayoutReceipt(ctx context.Context, teacherID uuid.UUID, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "File tidak ditemukan")
	}
	dir := fmt.Sprintf("receipts/%s", teacherID)
	url, _, err := b.svc.UploadImageAsWebP(ctx, dir, fh, nil)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadGateway, "Gagal upload bukti transfer: "+err.Error())
	}
	return url, nil
}

func (b *OSSBlobService) UploadTeacherQR(ctx context.Context, teacherID uuid.UUID, png []byte) (string, error) {
	if len(png) == 0 {
		return "", fiber.NewError(fiber.StatusBadRequest, "QR kosong")
	}
	dir := fmt.Sprintf("qr/%s", teacherID)
	url, err := b.svc.UploadBytes(ctx, dir, "payment-qr.png", "image/png", png, nil)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadGateway, "Gagal upload QR: "+err.Error())
	}
	return url, nil
}

func (b *OSSBlobService) UploadTeacherQRFile(ctx context.Context, teacherID uuid.UUID, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "File tidak ditemukan")
	}
	dir := fmt.Sprintf("qr/%s", teacherID)
	url, _, err := b.svc.UploadImageAsWebP(ctx, dir, fh, nil)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadGateway, "Gagal upload QR: "+err.Error())
	}
	return url, nil
}

func (b *OSSBlobService) UploadReportPDF(ctx context.Context, teacherID uuid.UUID, filename string, pdf []byte) (string, error) {
	if len(pdf) == 0 {
		return "", fiber.NewError(fiber.StatusBadRequest, "PDF kosong")
	}
	dir := fmt.Sprintf("reports/%s", teacherID)
	url, err := b.svc.UploadBytes(ctx, dir, filename, "application/pdf", pdf, nil)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadGateway, "Gagal upload laporan: "+err.Error())
	}
	return url, nil
}

func (b *OSSBlobService) FetchBytes(ctx context.Context, publicURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, publicURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gagal fetch %s: %w", publicURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", publicURL, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, MaxUploadSize))
}

func (b *OSSBlobService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	if publicURL == "" {
		return fiber.NewError(fiber.StatusBadRequest, "URL kosong")
	}
	if err := b.svc.DeleteByPublicURL(ctx, publicURL); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, fmt.Sprintf("Gagal hapus object: %v", err))
	}
	return nil
}

/* --------------------------------------------------
   Helper kecil untuk controller
-------------------------------------------------- */

// TryGetImageFile mengambil file multipart dari beberapa nama field umum.
func TryGetImageFile(c *fiber.Ctx, names ...string) *multipart.FileHeader {
	if len(names) == 0 {
		names = []string{"file", "image", "screenshot", "receipt"}
	}
	for _, n := range names {
		if fh, err := c.FormFile(n); err == nil && fh != nil {
			return fh
		}
	}
	return nil
}
