package service

import "github.com/gofiber/fiber/v2"

// Sentinel errors — instance tunggal supaya bisa dibandingkan dengan errors.Is
// dan sekaligus membawa status HTTP sampai ke boundary fiber.
var (
	ErrUnknownClassProfile   = fiber.NewError(fiber.StatusBadRequest, "Profil kelas tidak dikenal")
	ErrInvalidCustomDuration = fiber.NewError(fiber.StatusUnprocessableEntity, "Durasi custom harus ≥ durasi dasar profil dan kelipatan 5 menit")
	ErrActiveSessionExists   = fiber.NewError(fiber.StatusConflict, "Masih ada sesi aktif untuk teacher ini")
	ErrSessionNotFound       = fiber.NewError(fiber.StatusNotFound, "Sesi tidak ditemukan")
	ErrSessionNotOngoing     = fiber.NewError(fiber.StatusConflict, "Sesi tidak dalam status ongoing")
	ErrScreenshotNotExpected = fiber.NewError(fiber.StatusConflict, "Sesi tidak sedang menunggu screenshot")
	ErrHalfPayNotAllowed     = fiber.NewError(fiber.StatusUnprocessableEntity, "Profil kelas ini tidak mendukung half-pay")
	ErrHalfPayTooEarly       = fiber.NewError(fiber.StatusUnprocessableEntity, "Half-pay baru bisa setelah 15 menit berjalan")
)
