package endpoint

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/hospicare/appointment-system/model"
	"github.com/hospicare/appointment-system/util"
)

type AddDoctorRequest struct {
	Username string `json:"username" binding:"required" example:"dr.house"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type AdminDashboardResponse struct {
	Doctors  []model.User `json:"doctors"`
	Patients []model.User `json:"patients"`
}

// AdminDashboard godoc
// @Summary      Admin dashboard
// @Description  List all doctor and patient accounts
// @Tags         Admin
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=AdminDashboardResponse} "Dashboard data"
// @Failure      401 {object} util.APIResponse "Access denied"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /admin_dashboard [get]
func AdminDashboard(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var doctors []model.User
	if err := db.Where("role = ?", model.RoleDoctor).Find(&doctors).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to list doctors", Err: err})
		return
	}

	var patients []model.User
	if err := db.Where("role = ?", model.RolePatient).Find(&patients).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to list patients", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Admin dashboard",
		Data: AdminDashboardResponse{Doctors: doctors, Patients: patients},
	})
}

// AddDoctor godoc
// @Summary      Create doctor account
// @Description  Create a new doctor-role account; admin only
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Success      307 {object} util.APIResponse "Doctor added, data carries the dashboard path"
// @Failure      400 {object} util.APIResponse "Invalid request or username already exists"
// @Failure      401 {object} util.APIResponse "Access denied"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /add_doctor [post]
func AddDoctor(c *gin.Context) {
	var req AddDoctorRequest

	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	username := util.NormalizeUsername(req.Username)
	if !ensureUsernameAvailable(c, db, username) {
		return
	}

	hashedPassword, salt, ok := hashPasswordForSignup(c, req.Password)
	if !ok {
		return
	}

	newDoctor := model.User{
		Username:     username,
		Password:     hashedPassword,
		PasswordSalt: salt,
		Role:         model.RoleDoctor,
	}
	if !createUserOrRespond(c, db, &newDoctor) {
		return
	}

	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventSignupSuccess,
		UserID:    fmt.Sprintf("%d", newDoctor.ID),
		Username:  newDoctor.Username,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Message:   "Doctor account created by admin",
	})

	util.CallUserFound(c, util.APISuccessParams{
		Msg:  "Doctor added successfully",
		Data: "/admin_dashboard",
	})
}
