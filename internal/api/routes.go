package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/service"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	plannerService service.PlannerService,
) {
	authHandler := NewAuthHandler(authService)
	plannerHandler := NewPlannerHandler(plannerService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Plan builder: templates and presets ---
		planGroup := protected.Group("/plans", RoleMiddleware(domain.RoleTrainer))
		{
			planGroup.GET("", plannerHandler.ListTemplates)
			planGroup.DELETE("/:id", plannerHandler.DeleteTemplate)
		}

		// --- Plan builder: editor sessions ---
		sessionGroup := protected.Group("/planner/sessions", RoleMiddleware(domain.RoleTrainer))
		{
			sessionGroup.POST("", plannerHandler.OpenSession)
			sessionGroup.GET("/:id", plannerHandler.GetSession)
			sessionGroup.DELETE("/:id", plannerHandler.CloseSession)
			sessionGroup.POST("/:id/actions", plannerHandler.DispatchAction)
			sessionGroup.POST("/:id/preset", plannerHandler.LoadPreset)
			sessionGroup.POST("/:id/save", plannerHandler.Save)
			sessionGroup.POST("/:id/save-as-preset", plannerHandler.SaveAsPreset)
			sessionGroup.POST("/:id/export", plannerHandler.Export)
		}
	}
}
