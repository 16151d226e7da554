package middleware

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hospicare/appointment-system/config"
	"github.com/hospicare/appointment-system/model"
	"github.com/hospicare/appointment-system/util"
	"gorm.io/gorm"
)

const (
	userIDContextKey      = "user_id"
	roleContextKey        = "role"
	currentUserContextKey = "current_user"
)

// ValidateLoginToken resolves the caller's identity from the session-token
// header. Redis is consulted first; on a miss (or without Redis) the
// session row is loaded from the database and checked for expiry. The
// resolved user id, role, and user row are stored in the gin context for
// handlers downstream.
func ValidateLoginToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionToken := c.GetHeader("session-token")
		if sessionToken == "" {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Session token not provided",
				Err: fmt.Errorf("session token not provided"),
			})
			c.Abort()
			return
		}

		db := GetDB(c)
		if db == nil {
			util.CallServerError(c, util.APIErrorParams{
				Msg: "Database connection not available",
				Err: fmt.Errorf("db is nil"),
			})
			c.Abort()
			return
		}

		userID, role, ok := resolveSessionFromRedis(sessionToken)
		if !ok {
			userID, role, ok = resolveSessionFromDB(db, sessionToken)
		}
		if !ok {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Invalid or expired session",
				Err: fmt.Errorf("session not found or expired"),
			})
			c.Abort()
			return
		}

		var user model.User
		if err := db.First(&user, userID).Error; err != nil {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Invalid or expired session",
				Err: fmt.Errorf("session user not found"),
			})
			c.Abort()
			return
		}

		c.Set(userIDContextKey, user.ID)
		c.Set(roleContextKey, role)
		c.Set(currentUserContextKey, user)
		c.Next()
	}
}

// resolveSessionFromRedis checks the session mirror key. Value format is
// "<userID>:<role>".
func resolveSessionFromRedis(token string) (uint, model.Role, bool) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return 0, "", false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	val, err := rdb.Get(ctx, util.SessionKey(token)).Result()
	if err != nil {
		return 0, "", false
	}
	parts := strings.SplitN(val, ":", 2)
	if len(parts) != 2 {
		return 0, "", false
	}
	id, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, "", false
	}
	role := model.Role(parts[1])
	if !role.IsValid() {
		return 0, "", false
	}
	return uint(id), role, true
}

func resolveSessionFromDB(db *gorm.DB, token string) (uint, model.Role, bool) {
	var session model.Session
	if err := db.Where("session_token = ?", token).First(&session).Error; err != nil {
		return 0, "", false
	}
	if time.Now().After(session.ExpiresAt) {
		return 0, "", false
	}
	var user model.User
	if err := db.First(&user, session.UserID).Error; err != nil {
		return 0, "", false
	}
	return user.ID, user.Role, true
}

// RequireRole allows the request through only when the session role matches
// the required one. It must run after ValidateLoginToken. Denials are
// logged as unauthorized access events and change no state.
func RequireRole(required model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok || role != required {
			userID, _ := GetUserID(c)
			util.LogUnauthorizedAccess(
				fmt.Sprintf("%d", userID),
				util.GetUsername(GetDB(c), userID),
				c.ClientIP(),
				c.Request.URL.Path,
				fmt.Sprintf("role %q required", required),
			)
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Access denied",
				Err: fmt.Errorf("insufficient role"),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user id set by ValidateLoginToken.
func GetUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(userIDContextKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// GetRole returns the authenticated role set by ValidateLoginToken.
func GetRole(c *gin.Context) (model.Role, bool) {
	value, exists := c.Get(roleContextKey)
	if !exists {
		return "", false
	}
	role, ok := value.(model.Role)
	return role, ok
}

// CurrentUser returns the full user row of the authenticated caller.
func CurrentUser(c *gin.Context) (model.User, bool) {
	value, exists := c.Get(currentUserContextKey)
	if !exists {
		return model.User{}, false
	}
	user, ok := value.(model.User)
	return user, ok
}
