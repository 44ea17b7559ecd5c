package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "tutorku_backend/internals/features/tutoring/sessions/model"
)

func newTestService(t *testing.T) (*SessionService, *fakeSessionRepo, *fakeClock) {
	t.Helper()
	repo := newFakeSessionRepo()
	clock := newFakeClock()
	// tick 1 jam: timer tidak pernah sempat fire sendiri di test service —
	// jalur timeout dites eksplisit lewat Active()/completeByTimeout.
	timers := NewTimerRegistry(clock, time.Hour)
	svc := NewSessionService(repo, clock, timers)
	t.Cleanup(svc.Close)
	return svc, repo, clock
}

func TestStartFixedProfileIgnoresCustomMinutes(t *testing.T) {
	svc, _, _ := newTestService(t)
	teacherID := uuid.New()

	custom := 90
	mdl, err := svc.Start(context.Background(), teacherID, "IELTS", &custom)
	require.NoError(t, err)

	// IELTS durasinya fixed: custom minutes tidak dihormati
	assert.Equal(t, 3600, mdl.SessionDurationSeconds)
	assert.Equal(t, m.SessionStatusOngoing, mdl.SessionStatus)
	assert.Equal(t, "250.00", mdl.SessionTotalEarnings.StringFixed(2))
}

func TestStartCustomDuration(t *testing.T) {
	svc, _, _ := newTestService(t)

	cases := []struct {
		name    string
		minutes int
		wantErr error
		wantSec int
	}{
		{"di bawah durasi dasar", 45, ErrInvalidCustomDuration, 0},
		{"bukan kelipatan 5", 63, ErrInvalidCustomDuration, 0},
		{"sama dengan dasar", 60, nil, 3600},
		{"di atas dasar", 90, nil, 5400},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mdl, err := svc.Start(context.Background(), uuid.New(), "Conversation", &tc.minutes)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantSec, mdl.SessionDurationSeconds)
		})
	}
}

func TestStartUnknownProfile(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Start(context.Background(), uuid.New(), "Calculus", nil)
	assert.ErrorIs(t, err, ErrUnknownClassProfile)
}

func TestStartRejectsSecondActiveSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	teacherID := uuid.New()

	_, err := svc.Start(context.Background(), teacherID, "IELTS", nil)
	require.NoError(t, err)

	_, err = svc.Start(context.Background(), teacherID, "Grammar", nil)
	assert.ErrorIs(t, err, ErrActiveSessionExists)

	// Teacher lain tidak terpengaruh
	_, err = svc.Start(context.Background(), uuid.New(), "Grammar", nil)
	assert.NoError(t, err)
}

func TestStopManualProRataEarnings(t *testing.T) {
	svc, _, clock := newTestService(t)
	teacherID := uuid.New()

	mdl, err := svc.Start(context.Background(), teacherID, "IELTS", nil)
	require.NoError(t, err)

	clock.Advance(30 * time.Minute)

	stopped, err := svc.StopManual(context.Background(), teacherID, mdl.SessionId)
	require.NoError(t, err)

	assert.Equal(t, m.SessionStatusAwaitingScreenshot, stopped.SessionStatus)
	require.NotNil(t, stopped.SessionActualDuration)
	assert.Equal(t, 1800, *stopped.SessionActualDuration)
	require.NotNil(t, stopped.SessionActualEarnings)
	// 250 * 1800 / 3600 = 125.00 — actual menang atas proyeksi
	assert.Equal(t, "125.00", stopped.SessionActualEarnings.StringFixed(2))
	assert.Equal(t, "125.00", stopped.EffectiveEarnings().StringFixed(2))

	// Stop kedua ditolak
	_, err = svc.StopManual(context.Background(), teacherID, mdl.SessionId)
	assert.ErrorIs(t, err, ErrSessionNotOngoing)
}

func TestHalfPay(t *testing.T) {
	t.Run("hanya profil yang mengizinkan", func(t *testing.T) {
		svc, _, clock := newTestService(t)
		teacherID := uuid.New()
		mdl, err := svc.Start(context.Background(), teacherID, "IELTS", nil)
		require.NoError(t, err)

		clock.Advance(20 * time.Minute)
		_, err = svc.HalfPay(context.Background(), teacherID, mdl.SessionId)
		assert.ErrorIs(t, err, ErrHalfPayNotAllowed)
	})

	t.Run("minimal 15 menit", func(t *testing.T) {
		svc, _, clock := newTestService(t)
		teacherID := uuid.New()
		mdl, err := svc.Start(context.Background(), teacherID, "Kids", nil)
		require.NoError(t, err)

		clock.Advance(14 * time.Minute)
		_, err = svc.HalfPay(context.Background(), teacherID, mdl.SessionId)
		assert.ErrorIs(t, err, ErrHalfPayTooEarly)
	})

	t.Run("setengah rate persis", func(t *testing.T) {
		svc, _, clock := newTestService(t)
		teacherID := uuid.New()
		mdl, err := svc.Start(context.Background(), teacherID, "Kids", nil)
		require.NoError(t, err)

		clock.Advance(16 * time.Minute)
		got, err := svc.HalfPay(context.Background(), teacherID, mdl.SessionId)
		require.NoError(t, err)

		assert.Equal(t, m.SessionStatusAwaitingScreenshot, got.SessionStatus)
		assert.True(t, got.SessionHalfPay)
		require.NotNil(t, got.SessionActualEarnings)
		// Kids 150/2 = 75.00 — bukan pro-rata elapsed
		assert.Equal(t, "75.00", got.SessionActualEarnings.StringFixed(2))
	})
}

func TestCancelRemovesSession(t *testing.T) {
	svc, repo, _ := newTestService(t)
	teacherID := uuid.New()

	mdl, err := svc.Start(context.Background(), teacherID, "Grammar", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), teacherID, mdl.SessionId))

	_, err = repo.GetByID(context.Background(), mdl.SessionId)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Teacher bisa langsung mulai sesi baru
	_, err = svc.Start(context.Background(), teacherID, "IELTS", nil)
	assert.NoError(t, err)
}

func TestAttachScreenshot(t *testing.T) {
	svc, _, clock := newTestService(t)
	teacherID := uuid.New()

	mdl, err := svc.Start(context.Background(), teacherID, "IELTS", nil)
	require.NoError(t, err)

	// Belum awaiting_screenshot → ditolak
	_, err = svc.AttachScreenshot(context.Background(), teacherID, mdl.SessionId, "https://x/ss.webp", "ss.webp")
	assert.ErrorIs(t, err, ErrScreenshotNotExpected)

	clock.Advance(30 * time.Minute)
	_, err = svc.StopManual(context.Background(), teacherID, mdl.SessionId)
	require.NoError(t, err)

	got, err := svc.AttachScreenshot(context.Background(), teacherID, mdl.SessionId, "https://x/ss.webp", "ss.webp")
	require.NoError(t, err)
	assert.Equal(t, m.SessionStatusCompleted, got.SessionStatus)
	require.NotNil(t, got.SessionScreenshotUrl)
	assert.Equal(t, "https://x/ss.webp", *got.SessionScreenshotUrl)
}

func TestActiveReconstruction(t *testing.T) {
	svc, _, clock := newTestService(t)
	teacherID := uuid.New()

	// Tidak ada sesi aktif → nil tanpa error
	mdl, elapsed, err := svc.Active(context.Background(), teacherID)
	require.NoError(t, err)
	assert.Nil(t, mdl)

	started, err := svc.Start(context.Background(), teacherID, "IELTS", nil)
	require.NoError(t, err)

	// Reload di tengah sesi: elapsed dihitung ulang dari start_time
	clock.Advance(10 * time.Minute)
	mdl, elapsed, err = svc.Active(context.Background(), teacherID)
	require.NoError(t, err)
	require.NotNil(t, mdl)
	assert.Equal(t, 600, elapsed)
	assert.Equal(t, m.SessionStatusOngoing, mdl.SessionStatus)

	// Reload SETELAH target lewat: langsung ditransisikan, bukan nunggu tick
	clock.Advance(55 * time.Minute)
	mdl, elapsed, err = svc.Active(context.Background(), teacherID)
	require.NoError(t, err)
	require.NotNil(t, mdl)
	assert.Equal(t, m.SessionStatusAwaitingScreenshot, mdl.SessionStatus)
	assert.GreaterOrEqual(t, elapsed, started.SessionDurationSeconds)
	// Proyeksi tetap berlaku untuk timeout otomatis
	assert.Nil(t, mdl.SessionActualEarnings)
	assert.Equal(t, "250.00", mdl.EffectiveEarnings().StringFixed(2))
}

func TestResumeOngoingTransitionsOverdue(t *testing.T) {
	svc, repo, clock := newTestService(t)
	teacherID := uuid.New()

	mdl, err := svc.Start(context.Background(), teacherID, "Grammar", nil)
	require.NoError(t, err)
	svc.Close() // simulasi proses mati

	clock.Advance(2 * time.Hour)

	timers := NewTimerRegistry(clock, time.Hour)
	svc2 := NewSessionService(repo, clock, timers)
	t.Cleanup(svc2.Close)

	require.NoError(t, svc2.ResumeOngoing(context.Background()))

	got, err := repo.GetByID(context.Background(), mdl.SessionId)
	require.NoError(t, err)
	assert.Equal(t, m.SessionStatusAwaitingScreenshot, got.SessionStatus)
}

// Alur IELTS lengkap: start → stop di 30 menit → screenshot → completed.
func TestFullFlowIELTS(t *testing.T) {
	svc, repo, clock := newTestService(t)
	teacherID := uuid.New()

	mdl, err := svc.Start(context.Background(), teacherID, "IELTS", nil)
	require.NoError(t, err)
	assert.Equal(t, "250.00", mdl.SessionTotalEarnings.StringFixed(2))

	clock.Advance(30 * time.Minute)
	_, err = svc.StopManual(context.Background(), teacherID, mdl.SessionId)
	require.NoError(t, err)

	_, err = svc.AttachScreenshot(context.Background(), teacherID, mdl.SessionId, "https://x/bukti.webp", "bukti.webp")
	require.NoError(t, err)

	got, err := repo.GetByID(context.Background(), mdl.SessionId)
	require.NoError(t, err)
	assert.Equal(t, m.SessionStatusCompleted, got.SessionStatus)
	assert.True(t, got.IsPayable())
	assert.Equal(t, "125.00", got.EffectiveEarnings().StringFixed(2))
}
