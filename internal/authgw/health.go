package authgw

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// serviceName は/statusで返すサービス名。
const serviceName = "GenoSentinel Authentication & Gateway"

// serviceVersion はサービスのバージョン。
const serviceVersion = "1.0.0"

// handleHealth は死活確認ハンドラを返す。
func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "UP",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// handleStatus はサービス情報付きの状態確認ハンドラを返す。
func (s *Server) handleStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":   serviceName,
			"status":    "RUNNING",
			"version":   serviceVersion,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}
