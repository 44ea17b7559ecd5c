package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	classprofile "tutorku_backend/internals/features/tutoring/class_profiles"
	m "tutorku_backend/internals/features/tutoring/sessions/model"
)

// SessionService menjalankan state machine timer & billing satu sesi:
// idle → ongoing → awaiting_screenshot → completed (→ paid lewat payroll).
// Semua mutasi earnings dibulatkan 2 desimal saat persist.
type SessionService struct {
	repo   SessionRepository
	clock  Clock
	timers *TimerRegistry
}

func NewSessionService(repo SessionRepository, clock Clock, timers *TimerRegistry) *SessionService {
	return &SessionService{repo: repo, clock: clock, timers: timers}
}

// Close melepas semua timer (dipanggil saat shutdown).
func (s *SessionService) Close() {
	if s.timers != nil {
		s.timers.Close()
	}
}

func (s *SessionService) elapsedSeconds(mdl m.SessionModel) int {
	el := int(s.clock.Now().Sub(mdl.SessionStartTime) / time.Second)
	if el < 0 {
		el = 0
	}
	return el
}

/* =========================================================
 * idle → ongoing
 * ========================================================= */

// Start membuat sesi baru untuk teacher. customMinutes hanya dihormati
// kalau profil mengizinkan custom duration; profil fixed selalu pakai
// durasi dasarnya.
func (s *SessionService) Start(ctx context.Context, teacherID uuid.UUID, classType string, customMinutes *int) (m.SessionModel, error) {
	profile, ok := classprofile.ByName(classType)
	if !ok {
		return m.SessionModel{}, ErrUnknownClassProfile
	}

	totalMinutes := profile.BaseDurationMinutes
	if profile.AllowsCustomDuration && customMinutes != nil {
		// Validasi SEBELUM ada tulisan ke store.
		if *customMinutes < profile.BaseDurationMinutes || *customMinutes%classprofile.DurationStepMinutes != 0 {
			return m.SessionModel{}, ErrInvalidCustomDuration
		}
		totalMinutes = *customMinutes
	}

	// Guard lokal (pesan lebih jelas) — race dua start hampir bersamaan
	// tetap ketahan oleh partial unique index di store.
	if active, err := s.repo.FindActiveByTeacher(ctx, teacherID); err != nil {
		return m.SessionModel{}, err
	} else if active != nil {
		return m.SessionModel{}, ErrActiveSessionExists
	}

	mdl := m.SessionModel{
		SessionTeacherId:           teacherID,
		SessionClassType:           profile.Name,
		SessionRate:                profile.BaseRate,
		SessionBaseDurationMinutes: profile.BaseDurationMinutes,
		SessionDurationSeconds:     totalMinutes * 60,
		SessionStartTime:           s.clock.Now().UTC(),
		SessionStatus:              m.SessionStatusOngoing,
		SessionTotalEarnings:       profile.ForecastEarnings(totalMinutes),
	}
	if err := s.repo.Create(ctx, &mdl); err != nil {
		return m.SessionModel{}, err
	}

	s.armTimer(mdl)
	log.Printf("[SESSION] start id=%s teacher=%s class=%s dur=%ds", mdl.SessionId, teacherID, profile.Name, mdl.SessionDurationSeconds)
	return mdl, nil
}

func (s *SessionService) armTimer(mdl m.SessionModel) {
	s.timers.Arm(mdl.SessionId, mdl.SessionStartTime, mdl.SessionDurationSeconds, s.completeByTimeout)
}

/* =========================================================
 * ongoing → awaiting_screenshot (timeout otomatis)
 * ========================================================= */

// completeByTimeout dipanggil runner SETELAH tick dimatikan. Proyeksi
// total_earnings tetap berlaku (tidak ada override actual_*).
func (s *SessionService) completeByTimeout(sessionID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mdl, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		log.Printf("[SESSION] timeout fetch err id=%s: %v", sessionID, err)
		return
	}
	if mdl.SessionStatus != m.SessionStatusOngoing {
		// sudah ditransisikan jalur lain (stop manual / cancel) — no-op
		return
	}

	now := s.clock.Now().UTC()
	if err := s.repo.UpdateFields(ctx, sessionID, map[string]interface{}{
		"session_status":   m.SessionStatusAwaitingScreenshot,
		"session_end_time": now,
	}); err != nil {
		log.Printf("[SESSION] timeout persist err id=%s: %v", sessionID, err)
		return
	}
	log.Printf("[SESSION] timeout id=%s → awaiting_screenshot", sessionID)
}

/* =========================================================
 * ongoing → awaiting_screenshot (stop manual)
 * ========================================================= */

func (s *SessionService) StopManual(ctx context.Context, teacherID, sessionID uuid.UUID) (m.SessionModel, error) {
	mdl, err := s.repo.GetOwned(ctx, sessionID, teacherID)
	if err != nil {
		return m.SessionModel{}, err
	}
	if mdl.SessionStatus != m.SessionStatusOngoing {
		return m.SessionModel{}, ErrSessionNotOngoing
	}

	// Matikan tick dulu, baru persist — jangan sampai timeout otomatis
	// balapan dengan stop manual.
	s.timers.Stop(sessionID)

	elapsed := s.elapsedSeconds(mdl)
	earnings := classprofile.EarningsForSeconds(mdl.SessionRate, mdl.SessionBaseDurationMinutes, elapsed)
	now := s.clock.Now().UTC()

	if err := s.repo.UpdateFields(ctx, sessionID, map[string]interface{}{
		"session_status":          m.SessionStatusAwaitingScreenshot,
		"session_actual_duration": elapsed,
		"session_actual_earnings": earnings,
		"session_end_time":        now,
	}); err != nil {
		return m.SessionModel{}, err
	}

	mdl.SessionStatus = m.SessionStatusAwaitingScreenshot
	mdl.SessionActualDuration = &elapsed
	mdl.SessionActualEarnings = &earnings
	mdl.SessionEndTime = &now
	log.Printf("[SESSION] stop id=%s elapsed=%ds earnings=%s", sessionID, elapsed, earnings)
	return mdl, nil
}

/* =========================================================
 * ongoing → awaiting_screenshot (half-pay)
 * ========================================================= */

func (s *SessionService) HalfPay(ctx context.Context, teacherID, sessionID uuid.UUID) (m.SessionModel, error) {
	mdl, err := s.repo.GetOwned(ctx, sessionID, teacherID)
	if err != nil {
		return m.SessionModel{}, err
	}
	if mdl.SessionStatus != m.SessionStatusOngoing {
		return m.SessionModel{}, ErrSessionNotOngoing
	}

	profile, ok := classprofile.ByName(mdl.SessionClassType)
	if !ok || !profile.AllowsHalfPay {
		return m.SessionModel{}, ErrHalfPayNotAllowed
	}
	elapsed := s.elapsedSeconds(mdl)
	if elapsed < classprofile.MinHalfPaySeconds {
		return m.SessionModel{}, ErrHalfPayTooEarly
	}

	s.timers.Stop(sessionID)

	earnings := classprofile.HalfPayEarnings(mdl.SessionRate)
	now := s.clock.Now().UTC()

	if err := s.repo.UpdateFields(ctx, sessionID, map[string]interface{}{
		"session_status":          m.SessionStatusAwaitingScreenshot,
		"session_actual_duration": elapsed,
		"session_actual_earnings": earnings,
		"session_half_pay":        true,
		"session_end_time":        now,
	}); err != nil {
		return m.SessionModel{}, err
	}

	mdl.SessionStatus = m.SessionStatusAwaitingScreenshot
	mdl.SessionActualDuration = &elapsed
	mdl.SessionActualEarnings = &earnings
	mdl.SessionHalfPay = true
	mdl.SessionEndTime = &now
	log.Printf("[SESSION] half-pay id=%s elapsed=%ds earnings=%s", sessionID, elapsed, earnings)
	return mdl, nil
}

/* =========================================================
 * ongoing → idle (cancel)
 * ========================================================= */

// Cancel menghapus sesi sepenuhnya — tidak ada earnings tercatat.
func (s *SessionService) Cancel(ctx context.Context, teacherID, sessionID uuid.UUID) error {
	mdl, err := s.repo.GetOwned(ctx, sessionID, teacherID)
	if err != nil {
		return err
	}
	if mdl.SessionStatus != m.SessionStatusOngoing {
		return ErrSessionNotOngoing
	}

	s.timers.Stop(sessionID)
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return err
	}
	log.Printf("[SESSION] cancel id=%s", sessionID)
	return nil
}

/* =========================================================
 * awaiting_screenshot → completed
 * ========================================================= */

// AttachScreenshot dipanggil SETELAH upload blob sukses. Kalau uploadnya
// gagal, tidak ada yang dipanggil — status tetap awaiting_screenshot dan
// tidak ada URL nyantol.
func (s *SessionService) AttachScreenshot(ctx context.Context, teacherID, sessionID uuid.UUID, url, name string) (m.SessionModel, error) {
	mdl, err := s.repo.GetOwned(ctx, sessionID, teacherID)
	if err != nil {
		return m.SessionModel{}, err
	}
	if mdl.SessionStatus != m.SessionStatusAwaitingScreenshot {
		return m.SessionModel{}, ErrScreenshotNotExpected
	}

	if err := s.repo.UpdateFields(ctx, sessionID, map[string]interface{}{
		"session_status":          m.SessionStatusCompleted,
		"session_screenshot_url":  url,
		"session_screenshot_name": name,
	}); err != nil {
		return m.SessionModel{}, err
	}

	mdl.SessionStatus = m.SessionStatusCompleted
	mdl.SessionScreenshotUrl = &url
	mdl.SessionScreenshotName = &name
	log.Printf("[SESSION] screenshot id=%s → completed", sessionID)
	return mdl, nil
}

/* =========================================================
 * Rekonstruksi setelah reload
 * ========================================================= */

// Active mencari sesi aktif milik teacher dan menghitung ulang elapsed dari
// start_time yang tersimpan. Sesi ongoing yang ketemu di-arm ulang; kalau
// targetnya sudah lewat, langsung ditransisikan di sini.
func (s *SessionService) Active(ctx context.Context, teacherID uuid.UUID) (*m.SessionModel, int, error) {
	mdl, err := s.repo.FindActiveByTeacher(ctx, teacherID)
	if err != nil {
		return nil, 0, err
	}
	if mdl == nil {
		return nil, 0, nil
	}

	elapsed := s.elapsedSeconds(*mdl)
	if mdl.SessionStatus == m.SessionStatusOngoing {
		if elapsed >= mdl.SessionDurationSeconds {
			s.completeByTimeout(mdl.SessionId)
			fresh, err := s.repo.GetByID(ctx, mdl.SessionId)
			if err != nil {
				return nil, 0, err
			}
			return &fresh, elapsed, nil
		}
		s.armTimer(*mdl)
	}
	return mdl, elapsed, nil
}

// ResumeOngoing dipanggil sekali saat boot: arm ulang semua sesi ongoing
// yang tersisa dari proses sebelumnya.
func (s *SessionService) ResumeOngoing(ctx context.Context) error {
	models, err := s.repo.ListOngoing(ctx)
	if err != nil {
		return err
	}
	for _, mdl := range models {
		if s.elapsedSeconds(mdl) >= mdl.SessionDurationSeconds {
			s.completeByTimeout(mdl.SessionId)
			continue
		}
		s.armTimer(mdl)
	}
	if len(models) > 0 {
		log.Printf("[SESSION] resume %d sesi ongoing", len(models))
	}
	return nil
}

/* =========================================================
 * Listing
 * ========================================================= */

func (s *SessionService) ListByTeacher(ctx context.Context, teacherID uuid.UUID, from, to *time.Time, limit, offset int) ([]m.SessionModel, int64, error) {
	return s.repo.ListByTeacher(ctx, teacherID, from, to, limit, offset)
}
