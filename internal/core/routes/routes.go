// Package routes attaches the wired handlers to the gin engine.
package routes

import (
	"log"
	"os"
	"time"

	"github.com/Josiascalt/tac-inventory-sys/internal/core/container"
	"github.com/Josiascalt/tac-inventory-sys/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.Engine, c *container.Container) {
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.TimeoutMiddleware(30 * time.Second))

	c.LoginHandler.RegisterRoutes(router)
	c.CatalogHandler.RegisterRoutes(router)
	c.LocationHandler.RegisterRoutes(router)
	c.VerifyHandler.RegisterRoutes(router)
	c.AuditHandler.RegisterRoutes(router)
	c.NotificationHandler.RegisterRoutes(router)
	c.MediaHandler.RegisterRoutes(router)
	c.UserHandler.RegisterRoutes(router)

	if c.ExportHandler != nil {
		c.ExportHandler.RegisterRoutes(router)
	}

	RegisterUtilityRoutes(router)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", middleware.HealthCheckMiddleware())

	openapiFilePath := "./docs/index.html"
	if _, err := os.Stat(openapiFilePath); err == nil {
		router.GET("/openapi.html", func(c *gin.Context) {
			c.File(openapiFilePath)
		})
		log.Println("Route docs/index.html registered successfully.")
	} else {
		log.Printf("Warning: %s not found. Route /openapi.html will not be registered.\n", openapiFilePath)
	}
}
