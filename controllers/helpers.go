package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/veekshithcb/Qkartbackend/logger"
	"github.com/veekshithcb/Qkartbackend/services"
	"go.uber.org/zap"
)

// respondError writes {"error": message}. The wrapped cause of an internal
// failure is logged, never returned.
func respondError(c *gin.Context, svcErr *services.ServiceError) {
	if svcErr.Kind == services.KindInternal {
		logger.FromContext(c).Error(svcErr.Message, zap.Error(svcErr.Err), zap.String("route", c.FullPath()))
	}
	c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
}
