package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tutorku_backend/internals/configs"
	"tutorku_backend/internals/constants"
	"tutorku_backend/internals/features/tutoring/teachers/dto"
	m "tutorku_backend/internals/features/tutoring/teachers/model"
	helper "tutorku_backend/internals/helpers"
	helperOSS "tutorku_backend/internals/helpers/oss"
	authMw "tutorku_backend/internals/middlewares/auth"
)

var validate = validator.New()

type TeacherController struct {
	DB   *gorm.DB
	Blob helperOSS.BlobService
}

func NewTeacherController(db *gorm.DB, blob helperOSS.BlobService) *TeacherController {
	return &TeacherController{DB: db, Blob: blob}
}

/* ===================== LOGIN ===================== */
// POST /login — verifikasi bcrypt + terbitkan access token HS256.
func (ctrl *TeacherController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var teacher m.TeacherModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Where("teacher_email = ?", req.Email).
		Take(&teacher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Email atau password salah")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(teacher.TeacherPassword), []byte(req.Password)); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Email atau password salah")
	}

	claims := jwt.MapClaims{
		"user_id": teacher.TeacherId.String(),
		"role":    teacher.TeacherRole,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat token")
	}

	return helper.Success(c, "Login berhasil", fiber.Map{
		"access_token": signed,
		"teacher":      dto.NewTeacherResponse(teacher),
	})
}

/* ===================== PROFILE (teacher) ===================== */
// GET /profile
func (ctrl *TeacherController) MyProfile(c *fiber.Ctx) error {
	teacherID, err := authMw.GetUserUUID(c)
	if err != nil {
		return err
	}
	var teacher m.TeacherModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Where("teacher_id = ?", teacherID).
		Take(&teacher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Teacher tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Profil", dto.NewTeacherResponse(teacher))
}

/* ===================== CRUD (admin) ===================== */
// GET /teachers
func (ctrl *TeacherController) List(c *fiber.Ctx) error {
	p := helper.ParsePagination(c)

	var total int64
	if err := ctrl.DB.WithContext(c.UserContext()).
		Model(&m.TeacherModel{}).Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var models []m.TeacherModel
	if err := p.Apply(ctrl.DB.WithContext(c.UserContext()).Order("teacher_name ASC")).
		Find(&models).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Daftar teacher", fiber.Map{
		"teachers":   dto.NewTeacherResponses(models),
		"pagination": p.Meta(total),
	})
}

// POST /teachers
func (ctrl *TeacherController) Create(c *fiber.Ctx) error {
	var req dto.CreateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.TeacherPassword), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal hash password")
	}

	role := req.TeacherRole
	if role == "" {
		role = constants.RoleTeacher
	}
	mdl := m.TeacherModel{
		TeacherName:     req.TeacherName,
		TeacherEmail:    req.TeacherEmail,
		TeacherPassword: string(hash),
		TeacherRole:     role,
	}
	if err := ctrl.DB.WithContext(c.UserContext()).Create(&mdl).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat teacher")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Teacher dibuat", dto.NewTeacherResponse(mdl))
}

// GET /teachers/:id
func (ctrl *TeacherController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "teacher id tidak valid")
	}
	var mdl m.TeacherModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Where("teacher_id = ?", id).Take(&mdl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Teacher tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Detail teacher", dto.NewTeacherResponse(mdl))
}

// PATCH /teachers/:id
func (ctrl *TeacherController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "teacher id tidak valid")
	}

	var req dto.UpdateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	fields := map[string]interface{}{}
	if req.TeacherName != nil {
		fields["teacher_name"] = *req.TeacherName
	}
	if req.TeacherEmail != nil {
		fields["teacher_email"] = *req.TeacherEmail
	}
	if req.TeacherPhotoUrl != nil {
		fields["teacher_photo_url"] = *req.TeacherPhotoUrl
	}
	if len(fields) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Tidak ada field untuk diupdate")
	}

	res := ctrl.DB.WithContext(c.UserContext()).
		Model(&m.TeacherModel{}).
		Where("teacher_id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Teacher tidak ditemukan")
	}
	return helper.Success(c, "Teacher diupdate", nil)
}

// DELETE /teachers/:id (soft delete)
func (ctrl *TeacherController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "teacher id tidak valid")
	}
	res := ctrl.DB.WithContext(c.UserContext()).
		Where("teacher_id = ?", id).
		Delete(&m.TeacherModel{})
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Teacher tidak ditemukan")
	}
	return helper.Success(c, "Teacher dihapus", nil)
}

/* ===================== PAYMENT QR ===================== */
// POST /teachers/:id/qr — upload gambar QR, atau generate dari payment_string.
func (ctrl *TeacherController) UpsertPaymentQr(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "teacher id tidak valid")
	}

	var mdl m.TeacherModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Where("teacher_id = ?", id).Take(&mdl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Teacher tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var qrURL string
	if fh := helperOSS.TryGetImageFile(c, "file", "image", "qr"); fh != nil {
		// jalur upload gambar QR
		url, err := ctrl.Blob.UploadTeacherQRFile(c.UserContext(), id, fh)
		if err != nil {
			return err
		}
		qrURL = url
	} else {
		// jalur generate dari payment string
		var req dto.GenerateQrRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Kirim file QR atau payment_string")
		}
		if err := validate.Struct(req); err != nil {
			return helper.ValidationError(c, err)
		}
		png, err := qrcode.Encode(req.PaymentString, qrcode.Medium, 512)
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Gagal generate QR: "+err.Error())
		}
		url, err := ctrl.Blob.UploadTeacherQR(c.UserContext(), id, png)
		if err != nil {
			return err
		}
		qrURL = url
	}

	if err := ctrl.DB.WithContext(c.UserContext()).
		Model(&m.TeacherModel{}).
		Where("teacher_id = ?", id).
		Update("teacher_payment_qr_url", qrURL).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan QR URL")
	}
	return helper.Success(c, "QR pembayaran tersimpan", fiber.Map{"teacher_payment_qr_url": qrURL})
}
