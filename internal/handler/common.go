package handler

import (
	"net/http"

	"event-reservation/internal/auth"
	apperrors "event-reservation/pkg/app_errors"
	"event-reservation/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

// ParseID 解析路徑上的 uuid，格式錯誤直接回 400
func ParseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// principal 取出 Auth middleware 放入 request context 的使用者
func principal(c *gin.Context) auth.Principal {
	return auth.FromContext(c.Request.Context())
}

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindInvalidTransition, apperrors.KindInvalidInput:
		return http.StatusBadRequest
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// handleError 依錯誤分類回應，4xx 記 Warn，5xx 記 Error 且不回傳細節
func handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	status := statusFor(apperrors.KindOf(err))
	if status == http.StatusInternalServerError {
		log.Error("Unexpected error")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}

	log.Warn("Request failed", zap.Int("status", status))
	c.JSON(status, gin.H{"error": apperrors.Sentinel(err).Error()})
}
