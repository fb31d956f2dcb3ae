package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// currentUserID は AuthMiddleware がセットした user_id を取り出します。
// 取り出せない場合はレスポンスを書き込んで false を返します。
func currentUserID(c *gin.Context) (int, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return 0, false
	}
	userID, ok := userIDVal.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID type in context"})
		return 0, false
	}
	return userID, true
}

// currentSessionID は AuthMiddleware がセットしたセッションIDです。
func currentSessionID(c *gin.Context) string {
	return c.GetString("session_id")
}

// pathID はパスパラメータ :id を整数として取り出します。
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return 0, false
	}
	return id, true
}
