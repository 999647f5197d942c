package middleware

import (
	"github.com/GabrielFBos/pix-saas-working/internal/service"
	"github.com/gin-gonic/gin"
)

func ChargeServiceMiddleware(svc *service.ChargeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("charge_service", svc)
		c.Next()
	}
}

func GetChargeService(c *gin.Context) *service.ChargeService {
	svc, exists := c.Get("charge_service")
	if !exists {
		return nil
	}
	return svc.(*service.ChargeService)
}
