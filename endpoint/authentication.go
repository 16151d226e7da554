package endpoint

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/hospicare/appointment-system/config"
	"github.com/hospicare/appointment-system/middleware"
	"github.com/hospicare/appointment-system/model"
	"github.com/hospicare/appointment-system/util"
	"gorm.io/gorm"
)

const sessionTTL = time.Hour

type RegisterRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type LoginResponse struct {
	Token        string     `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	SessionToken string     `json:"session_token" example:"0f9c2a..."`
	Role         model.Role `json:"role" example:"patient"`
	UserID       uint       `json:"user_id" example:"1"`
	Redirect     string     `json:"redirect" example:"/patient_dashboard"`
}

// Register godoc
// @Summary      Patient registration
// @Description  Create a new patient account with a unique username
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration details"
// @Success      307 {object} util.APIResponse{data=string} "Registration successful, data carries the login path"
// @Failure      400 {object} util.APIResponse "Invalid request or username already exists"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /register [post]
func Register(c *gin.Context) {
	var req RegisterRequest

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

	newUser := model.User{
		Username:     username,
		Password:     hashedPassword,
		PasswordSalt: salt,
		Role:         model.RolePatient,
	}
	if !createUserOrRespond(c, db, &newUser) {
		return
	}

	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventSignupSuccess,
		UserID:    fmt.Sprintf("%d", newUser.ID),
		Username:  newUser.Username,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Message:   "Patient registered successfully",
	})

	util.CallUserFound(c, util.APISuccessParams{
		Msg:  "Patient registered successfully",
		Data: "/login",
	})
}

// Login godoc
// @Summary      User login
// @Description  Authenticate with username and password; the response carries the dashboard path matching the account role
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} util.APIResponse{data=LoginResponse} "Login successful"
// @Failure      400 {object} util.APIResponse "Invalid credentials"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /login [post]
func Login(c *gin.Context) {
	loginWithRole(c, "")
}

// AdminLogin godoc
// @Summary      Admin login
// @Description  Authenticate against admin accounts only
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Admin credentials"
// @Success      200 {object} util.APIResponse{data=LoginResponse} "Login successful"
// @Failure      400 {object} util.APIResponse "Invalid credentials"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /admin_login [post]
func AdminLogin(c *gin.Context) {
	loginWithRole(c, model.RoleAdmin)
}

// loginWithRole implements both login routes. When requiredRole is empty
// any account may log in; otherwise the looked-up user must carry that
// role. The failure message never says which part of the credential pair
// was wrong.
func loginWithRole(c *gin.Context, requiredRole model.Role) {
	var req LoginRequest

	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	ci := requestClientInfo(c)
	ctx := loginContext{C: c, DB: db, Username: util.NormalizeUsername(req.Username), CI: ci}

	user, ok := loadUserForLogin(ctx, requiredRole)
	if !ok {
		return
	}

	if !ensureAccountNotLocked(ctx, &user) {
		return
	}

	if !verifyPasswordOrRespond(ctx, &user, req.Password) {
		return
	}

	finalizeLogin(ctx, &user, req.Password)
}

// loginContext groups per-attempt values to simplify the login flow.
type loginContext struct {
	C        *gin.Context
	DB       *gorm.DB
	Username string
	CI       clientInfo
}

func loadUserForLogin(ctx loginContext, requiredRole model.Role) (model.User, bool) {
	query := ctx.DB.Where("username = ?", ctx.Username)
	if requiredRole != "" {
		query = query.Where("role = ?", requiredRole)
	}

	var user model.User
	err := query.First(&user).Error
	if err == gorm.ErrRecordNotFound {
		util.LogLoginFailure(ctx.Username, ctx.CI.IP, ctx.CI.Agent, "user not found")
		util.CallUserError(ctx.C, util.APIErrorParams{Msg: "Invalid username or password", Err: fmt.Errorf("invalid credentials")})
		return model.User{}, false
	}
	if err != nil {
		util.LogLoginFailure(ctx.Username, ctx.CI.IP, ctx.CI.Agent, "database error")
		util.CallServerError(ctx.C, util.APIErrorParams{Msg: "Database error", Err: err})
		return model.User{}, false
	}
	return user, true
}

func ensureAccountNotLocked(ctx loginContext, user *model.User) bool {
	if locked, expiry := isAccountLocked(user); locked {
		util.LogLoginFailure(ctx.Username, ctx.CI.IP, ctx.CI.Agent, "account locked")
		util.CallUserError(ctx.C, util.APIErrorParams{
			Msg: fmt.Sprintf("Account is locked until %s due to multiple failed login attempts", expiry.Format(time.RFC3339)),
			Err: fmt.Errorf("account locked"),
		})
		return false
	}
	return true
}

func verifyPasswordOrRespond(ctx loginContext, user *model.User, plain string) bool {
	match, err := util.VerifyPassword(plain, user.Password, user.PasswordSalt)
	if err != nil {
		util.LogLoginFailure(ctx.Username, ctx.CI.IP, ctx.CI.Agent, "password verification error")
		util.CallServerError(ctx.C, util.APIErrorParams{Msg: "Password verification failed", Err: err})
		return false
	}
	if !match {
		incrementFailedAttempts(ctx.DB, user, ctx.CI)
		util.LogLoginFailure(ctx.Username, ctx.CI.IP, ctx.CI.Agent, "invalid password")
		util.CallUserError(ctx.C, util.APIErrorParams{Msg: "Invalid username or password", Err: fmt.Errorf("invalid credentials")})
		return false
	}
	return true
}

func finalizeLogin(ctx loginContext, user *model.User, plain string) bool {
	if err := resetFailedAttempts(ctx.DB, user); err != nil {
		util.LogSecurityEvent(util.SecurityEvent{
			EventType: util.EventSuspiciousActivity,
			UserID:    fmt.Sprintf("%d", user.ID),
			Username:  user.Username,
			IP:        ctx.CI.IP,
			Message:   fmt.Sprintf("Failed to reset failed attempts: %v", err),
		})
	}

	// Upgrade legacy password if needed (best-effort)
	_ = upgradeLegacyPasswordIfNeeded(ctx.DB, user, plain, ctx.CI)

	tokenString, ok := createTokenOrRespond(ctx, *user)
	if !ok {
		return false
	}

	sessionToken, err := generateSessionToken()
	if err != nil {
		util.CallServerError(ctx.C, util.APIErrorParams{Msg: "Could not generate session token", Err: err})
		return false
	}

	sessionInfo := SessionInfo{UserID: user.ID, Token: sessionToken, Client: ctx.CI, Expires: time.Now().Add(sessionTTL)}
	session, ok := recordSessionOrRespond(ctx, sessionInfo)
	if !ok {
		return false
	}

	// Mirror session into Redis (best-effort)
	_ = util.MirrorSession(user.ID, string(user.Role), sessionToken, time.Until(session.ExpiresAt))

	util.LogLoginSuccess(user.ID, user.Username, ctx.CI.IP, ctx.CI.Agent)
	util.CallSuccessOK(ctx.C, util.APISuccessParams{
		Msg: "Login successful",
		Data: LoginResponse{
			Token:        tokenString,
			SessionToken: sessionToken,
			Role:         user.Role,
			UserID:       user.ID,
			Redirect:     user.Role.DashboardPath(),
		},
	})
	return true
}

func createTokenOrRespond(ctx loginContext, user model.User) (string, bool) {
	tokenString, err := createJWTToken(user)
	if err != nil {
		util.LogLoginFailure(ctx.Username, ctx.CI.IP, ctx.CI.Agent, "token generation failed")
		util.CallServerError(ctx.C, util.APIErrorParams{Msg: "Could not generate token", Err: err})
		return "", false
	}
	return tokenString, true
}

func recordSessionOrRespond(ctx loginContext, info SessionInfo) (model.Session, bool) {
	session, err := recordSession(ctx.DB, info)
	if err != nil {
		util.LogLoginFailure(ctx.Username, ctx.CI.IP, ctx.CI.Agent, "session creation failed")
		util.CallServerError(ctx.C, util.APIErrorParams{Msg: "Failed to record session", Err: err})
		return model.Session{}, false
	}
	return session, true
}

func ensureUsernameAvailable(c *gin.Context, db *gorm.DB, username string) bool {
	var existingUser model.User
	err := db.First(&existingUser, "username = ?", username).Error
	if err != gorm.ErrRecordNotFound {
		if err == nil {
			util.CallUserError(c, util.APIErrorParams{Msg: "Username already exists", Err: fmt.Errorf("username already exists")})
			return false
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Database error", Err: err})
		return false
	}
	return true
}

func hashPasswordForSignup(c *gin.Context, plain string) (string, string, bool) {
	salt, err := util.GenerateSalt()
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to generate password salt", Err: err})
		return "", "", false
	}
	hashedPassword, err := util.HashPasswordArgon2(plain, salt)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to hash password", Err: err})
		return "", "", false
	}
	return hashedPassword, salt, true
}

func createUserOrRespond(c *gin.Context, db *gorm.DB, user *model.User) bool {
	if err := db.Create(user).Error; err != nil {
		// The unique index on username is the backstop for races between
		// the availability check and this insert.
		if strings.Contains(strings.ToLower(err.Error()), "unique") || strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			util.CallUserError(c, util.APIErrorParams{Msg: "Username already exists", Err: fmt.Errorf("username already exists")})
			return false
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create new user", Err: err})
		return false
	}
	return true
}

func isAccountLocked(user *model.User) (bool, time.Time) {
	if user.LockedUntil != nil && *user.LockedUntil > time.Now().Unix() {
		return true, time.Unix(*user.LockedUntil, 0)
	}
	return false, time.Time{}
}

func incrementFailedAttempts(db *gorm.DB, user *model.User, ci clientInfo) {
	user.FailedAttempts++
	if user.FailedAttempts >= 5 {
		lockUntil := time.Now().Add(15 * time.Minute).Unix()
		user.LockedUntil = &lockUntil
		util.LogAccountLocked(user.ID, user.Username, ci.IP, "too many failed login attempts")
	}
	if err := db.Save(user).Error; err != nil {
		util.LogLoginFailure(user.Username, ci.IP, ci.Agent, "failed to update failed attempts")
	}
}

func resetFailedAttempts(db *gorm.DB, user *model.User) error {
	if user.FailedAttempts > 0 || user.LockedUntil != nil {
		user.FailedAttempts = 0
		user.LockedUntil = nil
		return db.Save(user).Error
	}
	return nil
}

func upgradeLegacyPasswordIfNeeded(db *gorm.DB, user *model.User, plain string, ci clientInfo) error {
	if strings.HasPrefix(user.Password, "argon2id$") {
		return nil
	}
	salt, err := util.GenerateSalt()
	if err != nil {
		return err
	}
	hashed, herr := util.HashPasswordArgon2(plain, salt)
	if herr != nil {
		return herr
	}
	user.Password = hashed
	user.PasswordSalt = salt
	if err := db.Save(user).Error; err != nil {
		util.LogSecurityEvent(util.SecurityEvent{
			EventType: util.EventSuspiciousActivity,
			UserID:    fmt.Sprintf("%d", user.ID),
			Username:  user.Username,
			IP:        ci.IP,
			Message:   fmt.Sprintf("Failed to upgrade password hash: %v", err),
		})
		return err
	}
	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventPasswordChanged,
		UserID:    fmt.Sprintf("%d", user.ID),
		Username:  user.Username,
		IP:        ci.IP,
		Message:   "Upgraded password hash to Argon2",
	})
	return nil
}

func createJWTToken(user model.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"exp":      time.Now().Add(sessionTTL).Unix(),
		"role":     string(user.Role),
	})
	return token.SignedString(util.GetJWTSecretByte())
}

func generateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// SessionInfo groups parameters for creating a session to avoid long argument lists.
type SessionInfo struct {
	UserID  uint
	Token   string
	Client  clientInfo
	Expires time.Time
}

func recordSession(db *gorm.DB, info SessionInfo) (model.Session, error) {
	session := model.Session{UserID: info.UserID, SessionToken: info.Token, ExpiresAt: info.Expires, ClientIP: info.Client.IP, Browser: info.Client.Agent}
	err := db.Create(&session).Error
	return session, err
}

// Logout godoc
// @Summary      User logout
// @Description  Invalidate the user session token
// @Tags         Authentication
// @Produce      json
// @Security     SessionToken
// @Success      307 {object} util.APIResponse "Logout successful, data carries the landing path"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      400 {object} util.APIResponse "Session not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /logout [get]
func Logout(c *gin.Context) {
	sessionToken := c.GetHeader("session-token")
	if sessionToken == "" {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "Session token not provided",
			Err: fmt.Errorf("session token not provided"),
		})
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	// Find the session record in the database based on sessionToken
	var session model.Session
	if err := db.Where("session_token = ?", sessionToken).First(&session).Error; err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Session not found",
			Err: err,
		})
		return
	}

	// Get user info for logging
	var user model.User
	if err := db.First(&user, session.UserID).Error; err == nil {
		util.LogLogout(user.ID, user.Username, c.ClientIP(), c.Request.UserAgent())
	}

	// Delete the session record from the database
	if err := db.Where("session_token = ?", sessionToken).Delete(&session).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to delete session",
			Err: err,
		})
		return
	}

	// Also drop the Redis mirror and per-user set entry
	if rdb := config.GetRedisClient(); rdb != nil {
		_ = rdb.Del(c.Request.Context(), util.SessionKey(sessionToken)).Err()
		_ = util.RemoveSessionTokenFromUserSet(session.UserID, sessionToken)
	}

	util.CallUserFound(c, util.APISuccessParams{
		Msg:  "Logout successful",
		Data: "/",
	})
}
