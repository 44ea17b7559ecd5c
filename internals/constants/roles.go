package constants

// Role user di dalam sistem
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
)

var AllowedRoles = []string{RoleAdmin, RoleTeacher}
