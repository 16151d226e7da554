package endpoint

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hospicare/appointment-system/model"
	"github.com/hospicare/appointment-system/util"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func createTestAppointment(t *testing.T, db *gorm.DB, patientID, doctorID uint) model.Appointment {
	t.Helper()
	appointment := model.Appointment{
		PatientID: patientID,
		DoctorID:  doctorID,
		Time:      "2024-01-01 10:00",
		Status:    model.StatusPending,
	}
	assert.NoError(t, db.Create(&appointment).Error)
	return appointment
}

func TestDoctorDashboard_ListsOwnAppointments(t *testing.T) {
	r, db := setupEndpointTest(t)
	doctor, headers := loginAs(t, db, "dr.house", model.RoleDoctor)
	otherDoctor := createTestUser(t, db, "dr.wilson", "password123", model.RoleDoctor)
	patient := createTestUser(t, db, "alice", "password123", model.RolePatient)

	createTestAppointment(t, db, patient.ID, doctor.ID)
	createTestAppointment(t, db, patient.ID, otherDoctor.ID)

	registerAuthed(r, http.MethodGet, "/doctor_dashboard", model.RoleDoctor, DoctorDashboard)
	w, response, err := performRequest(r, requestSpec{method: http.MethodGet, requestPath: "/doctor_dashboard", headers: headers})
	assert.NoError(t, err)
	assertSuccessResponse(t, w, response)

	appointments, _ := response["data"].([]interface{})
	assert.Len(t, appointments, 1)
}

func TestUpdateAppointment_Accept(t *testing.T) {
	r, db := setupEndpointTest(t)
	doctor, headers := loginAs(t, db, "dr.house", model.RoleDoctor)
	patient := createTestUser(t, db, "alice", "password123", model.RolePatient)
	appointment := createTestAppointment(t, db, patient.ID, doctor.ID)

	registerAuthed(r, http.MethodGet, "/update_appointment/:id/:action", model.RoleDoctor, UpdateAppointment)
	path := fmt.Sprintf("/update_appointment/%d/accept", appointment.ID)
	w, response, err := performRequest(r, requestSpec{method: http.MethodGet, requestPath: path, headers: headers})
	assert.NoError(t, err)
	assertSuccessResponse(t, w, response)

	var updated model.Appointment
	assert.NoError(t, db.First(&updated, appointment.ID).Error)
	assert.Equal(t, model.StatusAccepted, updated.Status)
}

func TestUpdateAppointment_Reject(t *testing.T) {
	r, db := setupEndpointTest(t)
	doctor, headers := loginAs(t, db, "dr.house", model.RoleDoctor)
	patient := createTestUser(t, db, "alice", "password123", model.RolePatient)
	appointment := createTestAppointment(t, db, patient.ID, doctor.ID)

	registerAuthed(r, http.MethodGet, "/update_appointment/:id/:action", model.RoleDoctor, UpdateAppointment)
	path := fmt.Sprintf("/update_appointment/%d/reject", appointment.ID)
	w, _, err := performRequest(r, requestSpec{method: http.MethodGet, requestPath: path, headers: headers})
	assert.NoError(t, err)
	assertStatus(t, w, http.StatusOK)

	var updated model.Appointment
	assert.NoError(t, db.First(&updated, appointment.ID).Error)
	assert.Equal(t, model.StatusRejected, updated.Status)
}

func TestUpdateAppointment_UnknownActionLeavesStatus(t *testing.T) {
	r, db := setupEndpointTest(t)
	doctor, headers := loginAs(t, db, "dr.house", model.RoleDoctor)
	patient := createTestUser(t, db, "alice", "password123", model.RolePatient)
	appointment := createTestAppointment(t, db, patient.ID, doctor.ID)

	registerAuthed(r, http.MethodGet, "/update_appointment/:id/:action", model.RoleDoctor, UpdateAppointment)
	path := fmt.Sprintf("/update_appointment/%d/cancel", appointment.ID)
	w, _, err := performRequest(r, requestSpec{method: http.MethodGet, requestPath: path, headers: headers})
	assert.NoError(t, err)
	// Unknown actions are ignored, not rejected.
	assertStatus(t, w, http.StatusOK)

	var updated model.Appointment
	assert.NoError(t, db.First(&updated, appointment.ID).Error)
	assert.Equal(t, model.StatusPending, updated.Status)
}

func TestUpdateAppointment_TerminalStatusUnchanged(t *testing.T) {
	r, db := setupEndpointTest(t)
	doctor, headers := loginAs(t, db, "dr.house", model.RoleDoctor)
	patient := createTestUser(t, db, "alice", "password123", model.RolePatient)
	appointment := createTestAppointment(t, db, patient.ID, doctor.ID)
	assert.NoError(t, db.Model(&appointment).Update("status", model.StatusAccepted).Error)

	registerAuthed(r, http.MethodGet, "/update_appointment/:id/:action", model.RoleDoctor, UpdateAppointment)
	path := fmt.Sprintf("/update_appointment/%d/reject", appointment.ID)
	w, _, err := performRequest(r, requestSpec{method: http.MethodGet, requestPath: path, headers: headers})
	assert.NoError(t, err)
	assertStatus(t, w, http.StatusOK)

	var updated model.Appointment
	assert.NoError(t, db.First(&updated, appointment.ID).Error)
	assert.Equal(t, model.StatusAccepted, updated.Status)
}

func TestUpdateAppointment_OtherDoctorDenied(t *testing.T) {
	r, db := setupEndpointTest(t)
	_, headers := loginAs(t, db, "dr.wilson", model.RoleDoctor)
	owner := createTestUser(t, db, "dr.house", "password123", model.RoleDoctor)
	patient := createTestUser(t, db, "alice", "password123", model.RolePatient)
	appointment := createTestAppointment(t, db, patient.ID, owner.ID)

	registerAuthed(r, http.MethodGet, "/update_appointment/:id/:action", model.RoleDoctor, UpdateAppointment)
	path := fmt.Sprintf("/update_appointment/%d/accept", appointment.ID)
	w, _, err := performRequest(r, requestSpec{method: http.MethodGet, requestPath: path, headers: headers})
	assert.NoError(t, err)
	assertStatus(t, w, http.StatusUnauthorized)

	var unchanged model.Appointment
	assert.NoError(t, db.First(&unchanged, appointment.ID).Error)
	assert.Equal(t, model.StatusPending, unchanged.Status)
}

func TestUpdateAppointment_NotFound(t *testing.T) {
	r, db := setupEndpointTest(t)
	_, headers := loginAs(t, db, "dr.house", model.RoleDoctor)

	registerAuthed(r, http.MethodGet, "/update_appointment/:id/:action", model.RoleDoctor, UpdateAppointment)
	w, _, err := performRequest(r, requestSpec{method: http.MethodGet, requestPath: "/update_appointment/9999/accept", headers: headers})
	assert.NoError(t, err)
	assertStatus(t, w, http.StatusNotFound)
}

func TestUpdateAppointment_InvalidID(t *testing.T) {
	r, db := setupEndpointTest(t)
	_, headers := loginAs(t, db, "dr.house", model.RoleDoctor)

	registerAuthed(r, http.MethodGet, "/update_appointment/:id/:action", model.RoleDoctor, UpdateAppointment)
	w, _, err := performRequest(r, requestSpec{method: http.MethodGet, requestPath: "/update_appointment/invalid/accept", headers: headers})
	assert.NoError(t, err)
	assertStatus(t, w, http.StatusBadRequest)
}

func newUploadRequest(t *testing.T, path, fieldName, fileName string, contents []byte, headers map[string]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(fieldName, fileName)
	assert.NoError(t, err)
	_, err = part.Write(contents)
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	return req
}

func TestUploadPrescription_StoresFileAndRow(t *testing.T) {
	r, db := setupEndpointTest(t)
	fs, err := util.NewFileStore(t.TempDir())
	assert.NoError(t, err)
	SetFileStore(fs)

	doctor, headers := loginAs(t, db, "dr.house", model.RoleDoctor)
	patient := createTestUser(t, db, "alice", "password123", model.RolePatient)
	appointment := createTestAppointment(t, db, patient.ID, doctor.ID)

	contents := []byte("prescription bytes")
	registerAuthed(r, http.MethodPost, "/upload_prescription/:appointment_id", model.RoleDoctor, UploadPrescription)
	r.GET("/uploads/:filename", ServeUpload)

	path := fmt.Sprintf("/upload_prescription/%d", appointment.ID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, newUploadRequest(t, path, "file", "report.pdf", contents, headers))
	assertStatus(t, w, http.StatusOK)

	storedName := fmt.Sprintf("%d_report.pdf", appointment.ID)
	var prescription model.Prescription
	assert.NoError(t, db.Where("appointment_id = ?", appointment.ID).First(&prescription).Error)
	assert.Equal(t, storedName, prescription.FileName)
	assert.True(t, fs.Exists(storedName))

	// The stored file must round-trip through the public uploads route.
	fetch := httptest.NewRecorder()
	r.ServeHTTP(fetch, httptest.NewRequest(http.MethodGet, "/uploads/"+storedName, nil))
	assertStatus(t, fetch, http.StatusOK)
	assert.Equal(t, contents, fetch.Body.Bytes())
}

func TestUploadPrescription_OtherDoctorDenied(t *testing.T) {
	r, db := setupEndpointTest(t)
	fs, err := util.NewFileStore(t.TempDir())
	assert.NoError(t, err)
	SetFileStore(fs)

	_, headers := loginAs(t, db, "dr.wilson", model.RoleDoctor)
	owner := createTestUser(t, db, "dr.house", "password123", model.RoleDoctor)
	patient := createTestUser(t, db, "alice", "password123", model.RolePatient)
	appointment := createTestAppointment(t, db, patient.ID, owner.ID)

	registerAuthed(r, http.MethodPost, "/upload_prescription/:appointment_id", model.RoleDoctor, UploadPrescription)
	path := fmt.Sprintf("/upload_prescription/%d", appointment.ID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, newUploadRequest(t, path, "file", "report.pdf", []byte("x"), headers))
	assertStatus(t, w, http.StatusUnauthorized)

	var count int64
	assert.NoError(t, db.Model(&model.Prescription{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestUploadPrescription_MissingFile(t *testing.T) {
	r, db := setupEndpointTest(t)
	fs, err := util.NewFileStore(t.TempDir())
	assert.NoError(t, err)
	SetFileStore(fs)

	doctor, headers := loginAs(t, db, "dr.house", model.RoleDoctor)
	patient := createTestUser(t, db, "alice", "password123", model.RolePatient)
	appointment := createTestAppointment(t, db, patient.ID, doctor.ID)

	registerAuthed(r, http.MethodPost, "/upload_prescription/:appointment_id", model.RoleDoctor, UploadPrescription)
	path := fmt.Sprintf("/upload_prescription/%d", appointment.ID)
	w, _, err := performRequest(r, requestSpec{method: http.MethodPost, requestPath: path, headers: headers})
	assert.NoError(t, err)
	assertStatus(t, w, http.StatusBadRequest)
}

func TestUploadPrescriptionForm_ReturnsAppointment(t *testing.T) {
	r, db := setupEndpointTest(t)
	doctor, headers := loginAs(t, db, "dr.house", model.RoleDoctor)
	patient := createTestUser(t, db, "alice", "password123", model.RolePatient)
	appointment := createTestAppointment(t, db, patient.ID, doctor.ID)

	registerAuthed(r, http.MethodGet, "/upload_prescription/:appointment_id", model.RoleDoctor, UploadPrescriptionForm)
	path := fmt.Sprintf("/upload_prescription/%d", appointment.ID)
	w, response, err := performRequest(r, requestSpec{method: http.MethodGet, requestPath: path, headers: headers})
	assert.NoError(t, err)
	assertSuccessResponse(t, w, response)
}

func TestServeUpload_UnknownFile(t *testing.T) {
	r, _ := setupEndpointTest(t)
	fs, err := util.NewFileStore(t.TempDir())
	assert.NoError(t, err)
	SetFileStore(fs)

	r.GET("/uploads/:filename", ServeUpload)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/ghost.pdf", nil))
	assertStatus(t, w, http.StatusNotFound)
}
