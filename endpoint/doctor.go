package endpoint

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/hospicare/appointment-system/model"
	"github.com/hospicare/appointment-system/util"
)

var (
	fileStore   *util.FileStore
	fileStoreMu sync.RWMutex
)

// appointmentActions are the path actions a doctor may take on an appointment.
var appointmentActions = []string{"accept", "reject"}

// SetFileStore wires the prescription file store. Call during startup after
// the upload directory has been created.
func SetFileStore(fs *util.FileStore) {
	fileStoreMu.Lock()
	defer fileStoreMu.Unlock()
	fileStore = fs
}

func getFileStoreOrRespond(c *gin.Context) (*util.FileStore, bool) {
	fileStoreMu.RLock()
	fs := fileStore
	fileStoreMu.RUnlock()
	if fs == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "File store not available", Err: fmt.Errorf("file store is nil")})
		return nil, false
	}
	return fs, true
}

// DoctorDashboard godoc
// @Summary      Doctor dashboard
// @Description  List appointments assigned to the calling doctor
// @Tags         Doctor
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=[]model.Appointment} "Assigned appointments"
// @Failure      401 {object} util.APIResponse "Access denied"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /doctor_dashboard [get]
func DoctorDashboard(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	doctor, ok := currentUserOrRespond(c)
	if !ok {
		return
	}

	var appointments []model.Appointment
	if err := db.Where("doctor_id = ?", doctor.ID).Find(&appointments).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to list appointments", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Doctor dashboard",
		Data: appointments,
	})
}

// UpdateAppointment godoc
// @Summary      Accept or reject an appointment
// @Description  Move a pending appointment to accepted or rejected; only the assigned doctor may act. Unknown actions leave the status untouched.
// @Tags         Doctor
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Appointment ID"
// @Param        action path string true "accept or reject"
// @Success      200 {object} util.APIResponse{data=model.Appointment} "Updated appointment"
// @Failure      400 {object} util.APIResponse "Invalid id"
// @Failure      401 {object} util.APIResponse "Access denied"
// @Failure      404 {object} util.APIResponse "Appointment not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /update_appointment/{id}/{action} [get]
func UpdateAppointment(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	doctor, ok := currentUserOrRespond(c)
	if !ok {
		return
	}
	appointmentID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}

	appointment, ok := loadOwnedAppointmentOrRespond(c, db, appointmentID, doctor)
	if !ok {
		return
	}

	action := c.Param("action")
	if util.Contains(action, appointmentActions) {
		target, _ := model.ActionStatus(action)
		if appointment.CanTransition(target) {
			appointment.Status = target
			if err := db.Save(&appointment).Error; err != nil {
				util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update appointment", Err: err})
				return
			}
		}
	}
	// Unknown actions and already-terminal appointments are left unchanged.

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Appointment updated",
		Data: appointment,
	})
}

// UploadPrescriptionForm godoc
// @Summary      Upload prescription form context
// @Description  Return the appointment an upload would attach to; only the assigned doctor may view it
// @Tags         Doctor
// @Produce      json
// @Security     SessionToken
// @Param        appointment_id path int true "Appointment ID"
// @Success      200 {object} util.APIResponse{data=model.Appointment} "Appointment"
// @Failure      401 {object} util.APIResponse "Access denied"
// @Failure      404 {object} util.APIResponse "Appointment not found"
// @Router       /upload_prescription/{appointment_id} [get]
func UploadPrescriptionForm(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	doctor, ok := currentUserOrRespond(c)
	if !ok {
		return
	}
	appointmentID, ok := parseIDParamOrRespond(c, "appointment_id")
	if !ok {
		return
	}

	appointment, ok := loadOwnedAppointmentOrRespond(c, db, appointmentID, doctor)
	if !ok {
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Ready to upload",
		Data: appointment,
	})
}

// UploadPrescription godoc
// @Summary      Upload a prescription file
// @Description  Store the multipart "file" field as {appointment_id}_{original_name} and record a prescription row; only the assigned doctor may upload
// @Tags         Doctor
// @Accept       multipart/form-data
// @Produce      json
// @Security     SessionToken
// @Param        appointment_id path int true "Appointment ID"
// @Param        file formData file true "Prescription file"
// @Success      200 {object} util.APIResponse{data=model.Prescription} "Prescription recorded"
// @Failure      400 {object} util.APIResponse "Missing file"
// @Failure      401 {object} util.APIResponse "Access denied"
// @Failure      404 {object} util.APIResponse "Appointment not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /upload_prescription/{appointment_id} [post]
func UploadPrescription(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	doctor, ok := currentUserOrRespond(c)
	if !ok {
		return
	}
	fs, ok := getFileStoreOrRespond(c)
	if !ok {
		return
	}
	appointmentID, ok := parseIDParamOrRespond(c, "appointment_id")
	if !ok {
		return
	}

	appointment, ok := loadOwnedAppointmentOrRespond(c, db, appointmentID, doctor)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Prescription file is required", Err: err})
		return
	}

	storedName, err := fs.Save(c, file, appointment.ID)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to store prescription file", Err: err})
		return
	}

	prescription := model.Prescription{
		AppointmentID: appointment.ID,
		FileName:      storedName,
	}
	if err := db.Create(&prescription).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to record prescription", Err: err})
		return
	}

	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventFileUploaded,
		UserID:    fmt.Sprintf("%d", doctor.ID),
		Username:  doctor.Username,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Message:   fmt.Sprintf("Prescription %s uploaded for appointment %d", storedName, appointment.ID),
	})

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Prescription uploaded",
		Data: prescription,
	})
}
