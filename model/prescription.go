package model

import "gorm.io/gorm"

// Prescription records a file uploaded by a doctor for an appointment they
// own. Rows are write-once; there is no update or delete path.
type Prescription struct {
	gorm.Model
	AppointmentID uint   `json:"appointment_id" gorm:"column:appointment_id;not null;index"`
	FileName      string `json:"file_name" gorm:"column:file_name;type:varchar(200)" example:"5_report.pdf"`
}
