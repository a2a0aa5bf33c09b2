package app

import (
	"acaia_backend/docs"
	"acaia_backend/internal/config"
	"acaia_backend/internal/middleware"
	"acaia_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, st *stores, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)
	router.GET("/api", c.health.APIInfo)

	api := router.Group("/api/v1")

	// Public routes.
	{
		api.POST("/auth/register", c.auth.Register)
		api.POST("/auth/login", c.auth.Login)

		api.GET("/problems", c.problem.ListProblems)
		api.GET("/problems/:id", c.problem.GetProblem)

		api.GET("/exams", c.exam.ListExams)
		api.GET("/exams/:id", c.exam.GetExam)

		api.GET("/career/paths", c.career.Paths)
		api.GET("/career/learning-path", c.career.LearningPath)
	}

	// Authenticated routes.
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg.JWT.Secret, st.users))
	{
		authed.GET("/auth/me", c.auth.Me)
		authed.PUT("/auth/profile", c.auth.UpdateProfile)
		authed.PUT("/auth/password", c.auth.ChangePassword)
		authed.POST("/auth/avatar", c.auth.UploadAvatar)

		authed.POST("/chat", c.chat.CreateChat)
		authed.GET("/chat", c.chat.ListChats)
		authed.GET("/chat/:id", c.chat.GetChat)
		authed.PUT("/chat/:id", c.chat.UpdateChat)
		authed.DELETE("/chat/:id", c.chat.DeleteChat)
		authed.POST("/chat/:id/messages", c.chat.SendMessage)

		authed.POST("/problems/generate", c.problem.GenerateProblem)
		authed.POST("/problems/:id/solve", c.problem.SolveProblem)
		authed.POST("/problems/:id/rate", c.problem.RateProblem)
		authed.POST("/problems", c.problem.CreateProblem)

		authed.POST("/exams/generate", c.exam.GenerateExam)
		authed.POST("/exams/:id/submit", c.exam.SubmitExam)
		authed.GET("/exams/:id/results", c.exam.Results)
		authed.GET("/exams/:id/stats", c.exam.Stats)

		authed.POST("/career/advice", c.career.Advice)
		authed.POST("/career/assessment", c.career.Assessment)
	}
}
