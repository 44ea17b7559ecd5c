package classprofile

import (
	"github.com/shopspring/decimal"
)

// Aturan timer & durasi
const (
	MinHalfPaySeconds   = 900 // 15 menit minimal sebelum half-pay
	DurationStepMinutes = 5   // custom duration harus kelipatan 5 menit
)

// ClassProfile adalah konfigurasi statis satu jenis kelas.
// Set-nya tertutup (compile-time), bukan config dinamis: nambah profil baru
// berarti nambah entri di registry di bawah.
type ClassProfile struct {
	Name                 string          `json:"class_profile_name"`
	BaseRate             decimal.Decimal `json:"class_profile_base_rate"`
	BaseDurationMinutes  int             `json:"class_profile_base_duration_minutes"`
	AllowsCustomDuration bool            `json:"class_profile_allows_custom_duration"`
	AllowsHalfPay        bool            `json:"class_profile_allows_half_pay"`
}

// registry: urutan dipertahankan untuk tampilan kartu kelas.
// Invariant: BaseDurationMinutes > 0; AllowsHalfPay hanya true di satu profil.
var registry = []ClassProfile{
	{Name: "IELTS", BaseRate: decimal.NewFromInt(250), BaseDurationMinutes: 60},
	{Name: "TOEFL", BaseRate: decimal.NewFromInt(250), BaseDurationMinutes: 60},
	{Name: "Conversation", BaseRate: decimal.NewFromInt(200), BaseDurationMinutes: 60, AllowsCustomDuration: true},
	{Name: "Grammar", BaseRate: decimal.NewFromInt(180), BaseDurationMinutes: 60},
	{Name: "Kids", BaseRate: decimal.NewFromInt(150), BaseDurationMinutes: 40, AllowsCustomDuration: true, AllowsHalfPay: true},
}

// List mengembalikan salinan semua profil (untuk kartu kelas di client).
func List() []ClassProfile {
	out := make([]ClassProfile, len(registry))
	copy(out, registry)
	return out
}

// ByName mencari profil berdasarkan nama (exact match).
func ByName(name string) (ClassProfile, bool) {
	for _, p := range registry {
		if p.Name == name {
			return p, true
		}
	}
	return ClassProfile{}, false
}

// PerMinuteRate = baseRate / baseDurationMinutes.
func (p ClassProfile) PerMinuteRate() decimal.Decimal {
	return p.BaseRate.Div(decimal.NewFromInt(int64(p.BaseDurationMinutes)))
}

// ForecastEarnings: proyeksi earnings untuk durasi rencana (menit),
// dibulatkan 2 desimal saat disimpan.
func (p ClassProfile) ForecastEarnings(totalMinutes int) decimal.Decimal {
	return p.BaseRate.
		Mul(decimal.NewFromInt(int64(totalMinutes))).
		Div(decimal.NewFromInt(int64(p.BaseDurationMinutes))).
		Round(2)
}

// EarningsForSeconds: earnings aktual untuk elapsed detik pada rate snapshot
// tertentu: (rate/baseDurationMinutes) * (seconds/60), dibulatkan 2 desimal.
// rate dipisah dari profil supaya snapshot saat start yang dipakai, bukan
// konfigurasi terbaru.
func EarningsForSeconds(rate decimal.Decimal, baseDurationMinutes, seconds int) decimal.Decimal {
	return rate.
		Mul(decimal.NewFromInt(int64(seconds))).
		Div(decimal.NewFromInt(int64(baseDurationMinutes) * 60)).
		Round(2)
}

// HalfPayEarnings = rate/2 persis.
func HalfPayEarnings(rate decimal.Decimal) decimal.Decimal {
	return rate.Div(decimal.NewFromInt(2)).Round(2)
}
