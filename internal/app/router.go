package app

import (
	"formapro_backend/docs"
	"formapro_backend/internal/config"
	"formapro_backend/internal/middleware"
	"formapro_backend/internal/model"
	"formapro_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	api := router.Group("/api/v1")

	// Public routes
	api.POST("/auth/register", c.auth.Register)
	api.POST("/auth/login", c.auth.Login)
	api.GET("/formations", c.catalog.ListFormations)
	api.GET("/formations/:id", c.catalog.GetFormation)

	// Learner routes
	authorized := api.Group("")
	authorized.Use(middleware.AuthMiddleware(cfg))
	{
		authorized.GET("/profile", c.auth.GetProfile)
		authorized.PUT("/profile", c.auth.UpdateProfile)

		authorized.POST("/enrollments", c.enrollment.Enroll)
		authorized.GET("/enrollments", c.enrollment.ListMine)
		authorized.GET("/enrollments/:id", c.enrollment.GetDetail)
		authorized.GET("/enrollments/:id/certificate", c.certificate.GetByEnrollment)

		authorized.POST("/enrollments/:id/modules/:moduleId/start", c.progress.MarkStarted)
		authorized.PUT("/enrollments/:id/modules/:moduleId/progress", c.progress.UpdateProgress)
		authorized.POST("/enrollments/:id/modules/:moduleId/complete", c.progress.MarkCompleted)

		authorized.POST("/quizzes/:id/attempts", c.quiz.StartAttempt)
		authorized.GET("/quizzes/:id/attempts", c.quiz.ListAttempts)
		authorized.POST("/attempts/:attemptId/submit", c.quiz.SubmitAttempt)

		authorized.GET("/certificates", c.certificate.ListMine)
		authorized.GET("/badges", c.certificate.ListBadges)
	}

	// Instructor authoring routes
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Instructor))
	{
		admin.POST("/formations", c.admin.CreateFormation)
		admin.GET("/formations", c.admin.ListFormations)
		admin.GET("/formations/:id", c.admin.GetFormation)
		admin.PUT("/formations/:id", c.admin.UpdateFormation)
		admin.DELETE("/formations/:id", c.admin.DeleteFormation)
		admin.POST("/formations/:id/publish", c.admin.Publish)
		admin.POST("/formations/:id/archive", c.admin.Archive)

		admin.POST("/formations/:id/modules", c.admin.AddModule)
		admin.PUT("/modules/:moduleId", c.admin.UpdateModule)
		admin.DELETE("/modules/:moduleId", c.admin.DeleteModule)
		admin.PUT("/modules/:moduleId/quiz", c.admin.UpsertQuiz)

		admin.POST("/quizzes/:quizId/questions", c.admin.AddQuestion)
		admin.DELETE("/questions/:questionId", c.admin.DeleteQuestion)
	}
}
