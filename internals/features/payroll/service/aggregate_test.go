package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sm "tutorku_backend/internals/features/tutoring/sessions/model"
	tm "tutorku_backend/internals/features/tutoring/teachers/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func session(teacherID uuid.UUID, status string, total string, actual *string) sm.SessionModel {
	mdl := sm.SessionModel{
		SessionId:            uuid.New(),
		SessionTeacherId:     teacherID,
		SessionStatus:        status,
		SessionTotalEarnings: dec(total),
	}
	if actual != nil {
		a := dec(*actual)
		mdl.SessionActualEarnings = &a
	}
	return mdl
}

func TestAggregate(t *testing.T) {
	sinta := tm.TeacherModel{TeacherId: uuid.New(), TeacherName: "Sinta", TeacherEmail: "sinta@tutorku.id"}
	budi := tm.TeacherModel{TeacherId: uuid.New(), TeacherName: "Budi", TeacherEmail: "budi@tutorku.id"}
	teachers := []tm.TeacherModel{sinta, budi}

	actual := "50.00"
	sessions := []sm.SessionModel{
		session(sinta.TeacherId, sm.SessionStatusCompleted, "100.00", nil),
		// actual menang atas proyeksi
		session(sinta.TeacherId, sm.SessionStatusCompleted, "200.00", &actual),
		// proyeksi sesi yang masih jalan TIDAK masuk total
		session(sinta.TeacherId, sm.SessionStatusOngoing, "250.00", nil),
		session(budi.TeacherId, sm.SessionStatusPaid, "180.00", nil),
	}

	out := Aggregate(sessions, teachers)
	require.Len(t, out.Rows, 2)

	// Baris terurut nama
	assert.Equal(t, "Budi", out.Rows[0].TeacherName)
	assert.Equal(t, "Sinta", out.Rows[1].TeacherName)

	assert.Equal(t, "180.00", out.Rows[0].TotalEarnings.StringFixed(2))
	assert.True(t, out.Rows[0].Paid)

	assert.Equal(t, "150.00", out.Rows[1].TotalEarnings.StringFixed(2))
	// Masih ada sesi ongoing → pending
	assert.False(t, out.Rows[1].Paid)

	assert.Equal(t, "330.00", out.TotalPayrollPaid.StringFixed(2))
	assert.Equal(t, 1, out.NumberPendingPayroll)
}

// paid berubah true begitu semua sesi teacher berstatus completed/paid.
func TestAggregatePaidFlips(t *testing.T) {
	teacher := tm.TeacherModel{TeacherId: uuid.New(), TeacherName: "Sinta", TeacherEmail: "sinta@tutorku.id"}

	sessions := []sm.SessionModel{
		session(teacher.TeacherId, sm.SessionStatusCompleted, "100.00", nil),
		session(teacher.TeacherId, sm.SessionStatusCompleted, "50.00", nil),
		session(teacher.TeacherId, sm.SessionStatusOngoing, "25.00", nil),
	}
	out := Aggregate(sessions, []tm.TeacherModel{teacher})
	assert.Equal(t, "150.00", out.Rows[0].TotalEarnings.StringFixed(2))
	assert.False(t, out.Rows[0].Paid)
	assert.Equal(t, 1, out.NumberPendingPayroll)

	// Sesi ketiga selesai → teacher paid-eligible
	sessions[2].SessionStatus = sm.SessionStatusCompleted
	out = Aggregate(sessions, []tm.TeacherModel{teacher})
	assert.Equal(t, "175.00", out.Rows[0].TotalEarnings.StringFixed(2))
	assert.True(t, out.Rows[0].Paid)
	assert.Equal(t, 0, out.NumberPendingPayroll)
}

// Teacher tanpa sesi sama sekali: total 0, tidak pending.
func TestAggregateTeacherWithoutSessions(t *testing.T) {
	teacher := tm.TeacherModel{TeacherId: uuid.New(), TeacherName: "Baru", TeacherEmail: "baru@tutorku.id"}
	out := Aggregate(nil, []tm.TeacherModel{teacher})
	require.Len(t, out.Rows, 1)
	assert.True(t, out.Rows[0].TotalEarnings.IsZero())
	assert.True(t, out.Rows[0].Paid)
	assert.Equal(t, 0, out.NumberPendingPayroll)
}
