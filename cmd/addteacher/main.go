package main

import (
	"flag"
	"log"

	"golang.org/x/crypto/bcrypt"

	"tutorku_backend/internals/configs"
	"tutorku_backend/internals/constants"
	database "tutorku_backend/internals/databases"
	tm "tutorku_backend/internals/features/tutoring/teachers/model"
)

// Seeder akun: buat teacher/admin pertama dari terminal.
//
//	go run ./cmd/addteacher -name "Sinta" -email sinta@tutorku.id -password rahasia -role teacher
func main() {
	name := flag.String("name", "", "nama lengkap")
	email := flag.String("email", "", "email login")
	password := flag.String("password", "", "password plaintext (di-hash bcrypt)")
	role := flag.String("role", constants.RoleTeacher, "teacher atau admin")
	flag.Parse()

	if *name == "" || *email == "" || *password == "" {
		log.Fatal("❌ -name, -email, dan -password wajib diisi")
	}
	if *role != constants.RoleTeacher && *role != constants.RoleAdmin {
		log.Fatalf("❌ role tidak dikenal: %s", *role)
	}

	configs.LoadEnv()
	database.ConnectDB()
	database.MigrateAll()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Gagal hash password: %v", err)
	}

	mdl := tm.TeacherModel{
		TeacherName:     *name,
		TeacherEmail:    *email,
		TeacherPassword: string(hash),
		TeacherRole:     *role,
	}
	if err := database.DB.Create(&mdl).Error; err != nil {
		log.Fatalf("❌ Gagal membuat akun: %v", err)
	}

	log.Printf("✅ Akun %s (%s) dibuat dengan id %s", mdl.TeacherName, mdl.TeacherRole, mdl.TeacherId)
}
