package model

import "gorm.io/gorm"

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusPending  AppointmentStatus = "pending"
	StatusAccepted AppointmentStatus = "accepted"
	StatusRejected AppointmentStatus = "rejected"
)

// Appointment links a patient to a doctor at a requested time. Time is a
// free-text value supplied by the patient; it is stored verbatim.
type Appointment struct {
	gorm.Model
	PatientID uint              `json:"patient_id" gorm:"column:patient_id;not null;index"`
	DoctorID  uint              `json:"doctor_id" gorm:"column:doctor_id;not null;index"`
	Time      string            `json:"time" gorm:"column:time;type:varchar(50)" example:"2024-01-01 10:00"`
	Status    AppointmentStatus `json:"status" gorm:"column:status;type:varchar(20);default:pending" example:"pending"`
}

// CanTransition reports whether the appointment may move to the target
// status. Only pending appointments transition; accepted and rejected are
// terminal.
func (a *Appointment) CanTransition(target AppointmentStatus) bool {
	if a.Status != StatusPending {
		return false
	}
	return target == StatusAccepted || target == StatusRejected
}

// ActionStatus maps an action string from the update route to a target
// status. Unknown actions return ok=false; callers treat that as a no-op,
// not an error.
func ActionStatus(action string) (AppointmentStatus, bool) {
	switch action {
	case "accept":
		return StatusAccepted, true
	case "reject":
		return StatusRejected, true
	}
	return "", false
}
