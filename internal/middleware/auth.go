package middleware

import (
	"errors"
	"net/http"

	"playful_math_backend/internal/model"
	"playful_math_backend/internal/service"
	"playful_math_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 从 Cookie 中取出会话令牌，令牌签名和服务端会话都有效才放行
func AuthMiddleware(auth *service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		user, sess, err := auth.ResolveSession(c.Request.Context(), token)
		if err != nil {
			var appErr *util.AppError
			if errors.As(err, &appErr) && appErr.Status == http.StatusUnauthorized {
				util.Unauthorized(c)
			} else {
				util.LogInternalError(c, err)
			}
			c.Abort()
			return
		}

		c.Set(util.UserKey, user)
		c.Set(util.SessionKey, sess.ID)
		c.Next()
	}
}

func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := false
		for _, role := range roles {
			// 管理员拥有全部权限
			if user.Role == model.Admin || user.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.HandleError(c, util.NewForbiddenError("Admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// SelfOrAdmin 只允许访问自己的数据，管理员除外；param 为路径中的用户 ID 参数名
func SelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		id, ok := util.ParseID(c.Param(param))
		if !ok {
			util.BadRequest(c, "Invalid user ID")
			c.Abort()
			return
		}
		if id != user.ID && !user.IsAdmin() {
			util.HandleError(c, util.NewForbiddenError("You can only access your own records"))
			c.Abort()
			return
		}
		c.Next()
	}
}
