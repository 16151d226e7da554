package endpoint

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hospicare/appointment-system/middleware"
	"github.com/hospicare/appointment-system/model"
	"github.com/hospicare/appointment-system/util"
	"gorm.io/gorm"
)

// clientInfo captures request metadata used for security logging.
type clientInfo struct {
	IP    string
	Agent string
}

func requestClientInfo(c *gin.Context) clientInfo {
	return clientInfo{IP: c.ClientIP(), Agent: c.Request.UserAgent()}
}

func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

func getDBOrRespond(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database connection not available", Err: fmt.Errorf("db is nil")})
		return nil, false
	}
	return db, true
}

func currentUserOrRespond(c *gin.Context) (model.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "User not authenticated",
			Err: fmt.Errorf("no user in request context"),
		})
		return model.User{}, false
	}
	return user, true
}

func parseIDParamOrRespond(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		util.CallUserError(c, util.APIErrorParams{
			Msg: fmt.Sprintf("Invalid %s", name),
			Err: fmt.Errorf("%s must be a positive integer", name),
		})
		return 0, false
	}
	return uint(id), true
}

// loadOwnedAppointmentOrRespond loads an appointment and verifies the caller
// is its assigned doctor. Unknown ids are a 404; a mismatched doctor gets a
// denial with an unauthorized-access event, and nothing is modified.
func loadOwnedAppointmentOrRespond(c *gin.Context, db *gorm.DB, appointmentID uint, doctor model.User) (model.Appointment, bool) {
	var appointment model.Appointment
	err := db.First(&appointment, appointmentID).Error
	if err == gorm.ErrRecordNotFound {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "Appointment not found",
			Err: fmt.Errorf("appointment %d not found", appointmentID),
		})
		return model.Appointment{}, false
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database error", Err: err})
		return model.Appointment{}, false
	}

	if appointment.DoctorID != doctor.ID {
		util.LogUnauthorizedAccess(
			fmt.Sprintf("%d", doctor.ID),
			doctor.Username,
			c.ClientIP(),
			c.Request.URL.Path,
			fmt.Sprintf("appointment %d belongs to doctor %d", appointment.ID, appointment.DoctorID),
		)
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "Access denied",
			Err: fmt.Errorf("appointment is assigned to another doctor"),
		})
		return model.Appointment{}, false
	}
	return appointment, true
}
