package service

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tutorku_backend/internals/features/payroll/dto"
	sm "tutorku_backend/internals/features/tutoring/sessions/model"
	tm "tutorku_backend/internals/features/tutoring/teachers/model"
)

// Aggregate menghitung rollup payroll per teacher dari snapshot sesi.
//
// Aturan total: Σ effective earnings HANYA atas sesi completed/paid —
// proyeksi sesi yang masih jalan tidak ikut menggelembungkan angka.
// Aturan paid: true iff tidak ada sesi berstatus selain completed/paid —
// sesi yang masih ongoing/awaiting_screenshot bikin teacher tetap pending.
func Aggregate(sessions []sm.SessionModel, teachers []tm.TeacherModel) dto.PayrollSummaryResponse {
	type acc struct {
		total   decimal.Decimal
		pending bool
	}
	byTeacher := make(map[uuid.UUID]*acc, len(teachers))

	for _, s := range sessions {
		a, ok := byTeacher[s.SessionTeacherId]
		if !ok {
			a = &acc{total: decimal.Zero}
			byTeacher[s.SessionTeacherId] = a
		}
		switch s.SessionStatus {
		case sm.SessionStatusCompleted, sm.SessionStatusPaid:
			a.total = a.total.Add(s.EffectiveEarnings())
		default:
			// ongoing / awaiting_screenshot → teacher belum "paid"
			a.pending = true
		}
	}

	resp := dto.PayrollSummaryResponse{
		Rows:             make([]dto.PayrollRow, 0, len(teachers)),
		TotalPayrollPaid: decimal.Zero,
	}

	for _, t := range teachers {
		a := byTeacher[t.TeacherId]
		total := decimal.Zero
		pending := false
		if a != nil {
			total = a.total
			pending = a.pending
		}

		resp.Rows = append(resp.Rows, dto.PayrollRow{
			TeacherId:     t.TeacherId,
			TeacherName:   t.TeacherName,
			TeacherEmail:  t.TeacherEmail,
			PhotoUrl:      t.TeacherPhotoUrl,
			TotalEarnings: total,
			Paid:          !pending,
		})
		resp.TotalPayrollPaid = resp.TotalPayrollPaid.Add(total)
		if pending {
			resp.NumberPendingPayroll++
		}
	}

	sort.Slice(resp.Rows, func(i, j int) bool {
		return resp.Rows[i].TeacherName < resp.Rows[j].TeacherName
	})
	return resp
}
