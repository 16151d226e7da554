// main.go
package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hospicare/appointment-system/config"
	"github.com/hospicare/appointment-system/endpoint"
	"github.com/hospicare/appointment-system/middleware"
	"github.com/hospicare/appointment-system/model"
	"github.com/hospicare/appointment-system/util"
)

func main() {
	// Load the configuration
	cfg := config.LoadConfig()

	db, err := config.ConnectMySQL()
	if err != nil {
		log.Fatalf("Error connecting to MySQL: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Appointment{},
		&model.Prescription{},
		&model.Session{},
		&model.SecurityLog{},
	); err != nil {
		log.Fatalf("Error migrating schema: %v", err)
	}

	// Seed the default admin account; idempotent across restarts.
	if err := model.SeedAdmin(db, func(plain string) (string, string, error) {
		salt, err := util.GenerateSalt()
		if err != nil {
			return "", "", err
		}
		hashed, err := util.HashPasswordArgon2(plain, salt)
		return hashed, salt, err
	}); err != nil {
		log.Fatalf("Error seeding admin account: %v", err)
	}

	fileStore, err := util.NewFileStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Error preparing upload directory: %v", err)
	}
	endpoint.SetFileStore(fileStore)

	// Redis is best-effort: session validation and rate limiting degrade
	// to DB-only paths without it.
	if _, err := config.ConnectRedis(); err != nil {
		log.Printf("Redis unavailable: %v", err)
	}

	util.SetSecurityLoggerDB(db)
	util.InitUsernameCacheFromEnv()

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DatabaseMiddleware(db))
	router.Use(middleware.EndpointCallLogger())

	// Basic HTTP handler for root path
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	credentialLimiter := middleware.RateLimiter(middleware.RateLimitConfig{})

	router.POST("/register", credentialLimiter, endpoint.Register)
	router.POST("/login", credentialLimiter, endpoint.Login)
	router.POST("/admin_login", credentialLimiter, endpoint.AdminLogin)
	router.GET("/logout", endpoint.Logout)

	authed := router.Group("/", middleware.ValidateLoginToken())
	authed.GET("/admin_dashboard", middleware.RequireRole(model.RoleAdmin), endpoint.AdminDashboard)
	authed.POST("/add_doctor", middleware.RequireRole(model.RoleAdmin), endpoint.AddDoctor)

	authed.GET("/patient_dashboard", middleware.RequireRole(model.RolePatient), endpoint.PatientDashboard)
	authed.POST("/book_appointment", middleware.RequireRole(model.RolePatient), endpoint.BookAppointment)
	authed.GET("/view_history", middleware.RequireRole(model.RolePatient), endpoint.ViewHistory)

	authed.GET("/doctor_dashboard", middleware.RequireRole(model.RoleDoctor), endpoint.DoctorDashboard)
	authed.GET("/update_appointment/:id/:action", middleware.RequireRole(model.RoleDoctor), endpoint.UpdateAppointment)
	authed.GET("/upload_prescription/:appointment_id", middleware.RequireRole(model.RoleDoctor), endpoint.UploadPrescriptionForm)
	authed.POST("/upload_prescription/:appointment_id", middleware.RequireRole(model.RoleDoctor), endpoint.UploadPrescription)

	// Stored files are fetchable by name without authentication.
	router.GET("/uploads/:filename", endpoint.ServeUpload)

	// Start server on specified port
	address := fmt.Sprintf(":%d", cfg.AppPort)
	if err := router.Run(address); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
