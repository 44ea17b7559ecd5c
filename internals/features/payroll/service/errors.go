package service

import "github.com/gofiber/fiber/v2"

// Sentinel errors payroll. Sama seperti di sessions: *fiber.Error supaya
// controller tinggal errors.Is lalu teruskan status code-nya.
var (
	ErrTeacherNotFound = fiber.NewError(fiber.StatusNotFound, "Teacher tidak ditemukan")
	ErrReportNotFound  = fiber.NewError(fiber.StatusNotFound, "Payout report tidak ditemukan")

	// Precondition keras: tanpa bukti transfer tidak ada mutasi apa pun.
	ErrReceiptRequired = fiber.NewError(fiber.StatusUnprocessableEntity, "Bukti transfer (receipt) wajib diupload sebelum payout")

	ErrTeacherQrMissing = fiber.NewError(fiber.StatusUnprocessableEntity, "Teacher belum punya payment QR")
	ErrNothingPayable   = fiber.NewError(fiber.StatusConflict, "Tidak ada session berstatus completed untuk dibayar")

	// Gambar receipt/QR tidak bisa diunduh atau didecode. Terjadi SEBELUM
	// mutasi apa pun, jadi aman diulang.
	ErrImageUnusable = fiber.NewError(fiber.StatusUnprocessableEntity, "Gambar QR / receipt tidak bisa diproses")

	// Laporan sudah tercatat tapi mark-paid gagal; retry lewat endpoint retry.
	ErrMarkPaidFailed = fiber.NewError(fiber.StatusInternalServerError, "Laporan payout tersimpan, tetapi update status paid gagal. Silakan retry")

	ErrAlreadyMarkedPaid = fiber.NewError(fiber.StatusConflict, "Session untuk report ini sudah ditandai paid")
)
