package endpoint

import (
	"github.com/gin-gonic/gin"
	"github.com/hospicare/appointment-system/model"
	"github.com/hospicare/appointment-system/util"
)

type BookAppointmentRequest struct {
	DoctorID uint   `json:"doctor_id" binding:"required" example:"2"`
	Time     string `json:"time" binding:"required" example:"2024-01-01 10:00"`
}

type PatientDashboardResponse struct {
	Doctors      []model.User        `json:"doctors"`
	Appointments []model.Appointment `json:"appointments"`
}

type ViewHistoryResponse struct {
	Appointments  []model.Appointment  `json:"appointments"`
	Prescriptions []model.Prescription `json:"prescriptions"`
}

// PatientDashboard godoc
// @Summary      Patient dashboard
// @Description  List all doctors and the caller's appointments
// @Tags         Patient
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=PatientDashboardResponse} "Dashboard data"
// @Failure      401 {object} util.APIResponse "Access denied"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient_dashboard [get]
func PatientDashboard(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	patient, ok := currentUserOrRespond(c)
	if !ok {
		return
	}

	var doctors []model.User
	if err := db.Where("role = ?", model.RoleDoctor).Find(&doctors).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to list doctors", Err: err})
		return
	}

	var appointments []model.Appointment
	if err := db.Where("patient_id = ?", patient.ID).Find(&appointments).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to list appointments", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Patient dashboard",
		Data: PatientDashboardResponse{Doctors: doctors, Appointments: appointments},
	})
}

// BookAppointment godoc
// @Summary      Book an appointment
// @Description  Create a pending appointment with the chosen doctor; the time value is stored verbatim
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=model.Appointment} "Appointment booked"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      401 {object} util.APIResponse "Access denied"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /book_appointment [post]
func BookAppointment(c *gin.Context) {
	var req BookAppointmentRequest

	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	patient, ok := currentUserOrRespond(c)
	if !ok {
		return
	}

	// The doctor id and time are taken as-is: no existence check, no
	// conflict detection, no time parsing.
	appointment := model.Appointment{
		PatientID: patient.ID,
		DoctorID:  req.DoctorID,
		Time:      req.Time,
		Status:    model.StatusPending,
	}
	if err := db.Create(&appointment).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to book appointment", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Appointment booked",
		Data: appointment,
	})
}

// ViewHistory godoc
// @Summary      Patient history
// @Description  List the caller's appointments together with every prescription on record
// @Tags         Patient
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=ViewHistoryResponse} "History data"
// @Failure      401 {object} util.APIResponse "Access denied"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /view_history [get]
func ViewHistory(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	patient, ok := currentUserOrRespond(c)
	if !ok {
		return
	}

	var appointments []model.Appointment
	if err := db.Where("patient_id = ?", patient.ID).Find(&appointments).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to list appointments", Err: err})
		return
	}

	// Prescriptions are listed system-wide, not restricted to the
	// caller's appointments.
	var prescriptions []model.Prescription
	if err := db.Find(&prescriptions).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to list prescriptions", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Patient history",
		Data: ViewHistoryResponse{Appointments: appointments, Prescriptions: prescriptions},
	})
}
