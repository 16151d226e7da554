package model

// Role is the closed set of account roles. Authorization decisions switch
// exhaustively over these values; anything else is rejected.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// IsValid reports whether r is one of the three known roles.
func (r Role) IsValid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// DashboardPath returns the dashboard route a freshly logged-in user of
// this role should be sent to.
func (r Role) DashboardPath() string {
	switch r {
	case RolePatient:
		return "/patient_dashboard"
	case RoleDoctor:
		return "/doctor_dashboard"
	case RoleAdmin:
		return "/admin_dashboard"
	}
	return "/"
}
