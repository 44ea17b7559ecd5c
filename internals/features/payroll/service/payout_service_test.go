package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutorku_backend/internals/features/payroll/dto"
	pm "tutorku_backend/internals/features/payroll/model"
	sm "tutorku_backend/internals/features/tutoring/sessions/model"
	tm "tutorku_backend/internals/features/tutoring/teachers/model"
	helperOSS "tutorku_backend/internals/helpers/oss"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fakeBlob: blob storage in-memory keyed by URL.
type fakeBlob struct {
	objects  map[string][]byte
	uploaded []string
	fetchErr error
}

var _ helperOSS.BlobService = (*fakeBlob)(nil)

func newFakeBlob() *fakeBlob {
	return &fakeBlob{objects: map[string][]byte{}}
}

func (b *fakeBlob) put(url string, data []byte) { b.objects[url] = data }

func (b *fakeBlob) UploadSessionScreenshot(context.Context, uuid.UUID, *multipart.FileHeader, helperOSS.ProgressFunc) (string, string, error) {
	return "", "", errors.New("tidak dipakai di test ini")
}

func (b *fakeBlob) UploadPayoutReceipt(context.Context, uuid.UUID, *multipart.FileHeader) (string, error) {
	return "", errors.New("tidak dipakai di test ini")
}

func (b *fakeBlob) UploadTeacherQR(context.Context, uuid.UUID, []byte) (string, error) {
	return "", errors.New("tidak dipakai di test ini")
}

func (b *fakeBlob) UploadTeacherQRFile(context.Context, uuid.UUID, *multipart.FileHeader) (string, error) {
	return "", errors.New("tidak dipakai di test ini")
}

func (b *fakeBlob) UploadReportPDF(_ context.Context, teacherID uuid.UUID, filename string, pdf []byte) (string, error) {
	url := "https://blob.test/reports/" + teacherID.String() + "/" + filename
	b.objects[url] = pdf
	b.uploaded = append(b.uploaded, url)
	return url, nil
}

func (b *fakeBlob) FetchBytes(_ context.Context, publicURL string) ([]byte, error) {
	if b.fetchErr != nil {
		return nil, b.fetchErr
	}
	data, ok := b.objects[publicURL]
	if !ok {
		return nil, errors.New("object tidak ada: " + publicURL)
	}
	return data, nil
}

func (b *fakeBlob) DeleteByPublicURL(_ context.Context, publicURL string) error {
	delete(b.objects, publicURL)
	return nil
}

// fakePayrollStore: store in-memory + tombol gagal untuk mark-paid.
type fakePayrollStore struct {
	teachers map[uuid.UUID]tm.TeacherModel
	sessions []sm.SessionModel
	reports  map[uuid.UUID]pm.PayoutReportModel

	markPaidErr   error
	markPaidCalls int
}

var _ PayrollStore = (*fakePayrollStore)(nil)

func newFakePayrollStore() *fakePayrollStore {
	return &fakePayrollStore{
		teachers: map[uuid.UUID]tm.TeacherModel{},
		reports:  map[uuid.UUID]pm.PayoutReportModel{},
	}
}

func (s *fakePayrollStore) ListAllSessions(context.Context) ([]sm.SessionModel, error) {
	return s.sessions, nil
}

func (s *fakePayrollStore) ListTeacherSessions(_ context.Context, teacherID uuid.UUID, _, _ *time.Time) ([]sm.SessionModel, error) {
	var out []sm.SessionModel
	for _, ss := range s.sessions {
		if ss.SessionTeacherId == teacherID {
			out = append(out, ss)
		}
	}
	return out, nil
}

func (s *fakePayrollStore) ListTeachers(context.Context) ([]tm.TeacherModel, error) {
	var out []tm.TeacherModel
	for _, t := range s.teachers {
		out = append(out, t)
	}
	return out, nil
}

func (s *fakePayrollStore) GetTeacher(_ context.Context, id uuid.UUID) (tm.TeacherModel, error) {
	t, ok := s.teachers[id]
	if !ok {
		return tm.TeacherModel{}, ErrTeacherNotFound
	}
	return t, nil
}

func (s *fakePayrollStore) CreateReport(_ context.Context, mdl *pm.PayoutReportModel) error {
	if mdl.PayoutReportId == uuid.Nil {
		mdl.PayoutReportId = uuid.New()
	}
	s.reports[mdl.PayoutReportId] = *mdl
	return nil
}

func (s *fakePayrollStore) GetReport(_ context.Context, id uuid.UUID) (pm.PayoutReportModel, error) {
	r, ok := s.reports[id]
	if !ok {
		return pm.PayoutReportModel{}, ErrReportNotFound
	}
	return r, nil
}

func (s *fakePayrollStore) ListReports(context.Context) ([]pm.PayoutReportModel, error) {
	var out []pm.PayoutReportModel
	for _, r := range s.reports {
		out = append(out, r)
	}
	return out, nil
}

func (s *fakePayrollStore) SetReportMarked(_ context.Context, id uuid.UUID) error {
	r, ok := s.reports[id]
	if !ok {
		return ErrReportNotFound
	}
	r.PayoutReportSessionsMarkedPaid = true
	s.reports[id] = r
	return nil
}

func (s *fakePayrollStore) MarkSessionsPaid(_ context.Context, teacherID uuid.UUID) (int64, error) {
	s.markPaidCalls++
	if s.markPaidErr != nil {
		return 0, s.markPaidErr
	}
	var n int64
	for i := range s.sessions {
		if s.sessions[i].SessionTeacherId == teacherID && s.sessions[i].SessionStatus == sm.SessionStatusCompleted {
			s.sessions[i].SessionStatus = sm.SessionStatusPaid
			n++
		}
	}
	return n, nil
}

func setupPayout(t *testing.T) (*PayoutService, *fakePayrollStore, *fakeBlob, tm.TeacherModel, string) {
	t.Helper()
	store := newFakePayrollStore()
	blob := newFakeBlob()

	qrURL := "https://blob.test/qr/sinta.png"
	blob.put(qrURL, pngBytes(t))
	receiptURL := "https://blob.test/receipts/sinta.png"
	blob.put(receiptURL, pngBytes(t))

	teacher := tm.TeacherModel{
		TeacherId:           uuid.New(),
		TeacherName:         "Sinta",
		TeacherEmail:        "sinta@tutorku.id",
		TeacherPaymentQrUrl: &qrURL,
	}
	store.teachers[teacher.TeacherId] = teacher
	store.sessions = []sm.SessionModel{
		session(teacher.TeacherId, sm.SessionStatusCompleted, "100.00", nil),
		session(teacher.TeacherId, sm.SessionStatusCompleted, "50.00", nil),
	}

	return NewPayoutService(store, blob), store, blob, teacher, receiptURL
}

func TestGeneratePayoutHappyPath(t *testing.T) {
	svc, store, blob, teacher, receiptURL := setupPayout(t)

	res, err := svc.GeneratePayout(context.Background(), teacher.TeacherId, dto.GeneratePayoutRequest{ReceiptUrl: receiptURL})
	require.NoError(t, err)

	assert.Equal(t, "150.00", res.Report.PayoutReportTotal.StringFixed(2))
	assert.True(t, res.Report.PayoutReportSessionsMarkedPaid)
	assert.Equal(t, receiptURL, res.Report.PayoutReportReceiptUrl)

	// PDF terupload dan valid
	require.Len(t, blob.uploaded, 1)
	pdf := blob.objects[res.Report.PayoutReportPdfUrl]
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	// Semua sesi completed → paid
	for _, ss := range store.sessions {
		assert.Equal(t, sm.SessionStatusPaid, ss.SessionStatus)
	}
}

// Tanpa receipt tidak ada mutasi apa pun.
func TestGeneratePayoutRequiresReceipt(t *testing.T) {
	svc, store, blob, teacher, _ := setupPayout(t)

	_, err := svc.GeneratePayout(context.Background(), teacher.TeacherId, dto.GeneratePayoutRequest{})
	assert.ErrorIs(t, err, ErrReceiptRequired)

	assert.Empty(t, blob.uploaded)
	assert.Empty(t, store.reports)
	assert.Equal(t, 0, store.markPaidCalls)
	for _, ss := range store.sessions {
		assert.Equal(t, sm.SessionStatusCompleted, ss.SessionStatus)
	}
}

func TestGeneratePayoutRequiresTeacherQr(t *testing.T) {
	svc, store, _, teacher, receiptURL := setupPayout(t)
	teacher.TeacherPaymentQrUrl = nil
	store.teachers[teacher.TeacherId] = teacher

	_, err := svc.GeneratePayout(context.Background(), teacher.TeacherId, dto.GeneratePayoutRequest{ReceiptUrl: receiptURL})
	assert.ErrorIs(t, err, ErrTeacherQrMissing)
	assert.Empty(t, store.reports)
}

func TestGeneratePayoutNothingPayable(t *testing.T) {
	svc, store, _, teacher, receiptURL := setupPayout(t)
	for i := range store.sessions {
		store.sessions[i].SessionStatus = sm.SessionStatusPaid
	}

	_, err := svc.GeneratePayout(context.Background(), teacher.TeacherId, dto.GeneratePayoutRequest{ReceiptUrl: receiptURL})
	assert.ErrorIs(t, err, ErrNothingPayable)
}

// Gambar gagal diproses → abort bersih sebelum mutasi.
func TestGeneratePayoutImageFailureAborts(t *testing.T) {
	svc, store, blob, teacher, receiptURL := setupPayout(t)
	blob.fetchErr = errors.New("oss timeout")

	_, err := svc.GeneratePayout(context.Background(), teacher.TeacherId, dto.GeneratePayoutRequest{ReceiptUrl: receiptURL})
	assert.ErrorIs(t, err, ErrImageUnusable)

	assert.Empty(t, blob.uploaded)
	assert.Empty(t, store.reports)
	assert.Equal(t, 0, store.markPaidCalls)
}

// Mark-paid gagal: report tetap tercatat (marked=false) dan error tidak
// ditelan; retry menyelesaikannya.
func TestGeneratePayoutMarkPaidFailureThenRetry(t *testing.T) {
	svc, store, blob, teacher, receiptURL := setupPayout(t)
	store.markPaidErr = errors.New("db down")

	res, err := svc.GeneratePayout(context.Background(), teacher.TeacherId, dto.GeneratePayoutRequest{ReceiptUrl: receiptURL})
	require.ErrorIs(t, err, ErrMarkPaidFailed)
	require.Error(t, res.MarkPaidErr)

	// Report & PDF sudah ada, flag masih false
	stored, getErr := store.GetReport(context.Background(), res.Report.PayoutReportId)
	require.NoError(t, getErr)
	assert.False(t, stored.PayoutReportSessionsMarkedPaid)
	assert.Len(t, blob.uploaded, 1)

	// Retry setelah DB pulih
	store.markPaidErr = nil
	report, err := svc.RetryMarkPaid(context.Background(), res.Report.PayoutReportId)
	require.NoError(t, err)
	assert.True(t, report.PayoutReportSessionsMarkedPaid)
	for _, ss := range store.sessions {
		assert.Equal(t, sm.SessionStatusPaid, ss.SessionStatus)
	}

	// Retry kedua: sudah marked
	_, err = svc.RetryMarkPaid(context.Background(), res.Report.PayoutReportId)
	assert.ErrorIs(t, err, ErrAlreadyMarkedPaid)
}

func TestSummary(t *testing.T) {
	svc, store, _, teacher, _ := setupPayout(t)
	store.sessions = append(store.sessions, session(teacher.TeacherId, sm.SessionStatusOngoing, "250.00", nil))

	out, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "150.00", out.Rows[0].TotalEarnings.StringFixed(2))
	assert.False(t, out.Rows[0].Paid)
}
