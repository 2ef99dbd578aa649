package app

import (
	"playful_math_backend/docs"
	"playful_math_backend/internal/middleware"
	"playful_math_backend/internal/model"
	"playful_math_backend/internal/util"
	"playful_math_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	router.NoRoute(func(ctx *gin.Context) {
		util.NotFound(ctx, "Route not found")
	})

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(a.services.auth, a.Config.Session.CookieName))
	{
		a.registerStudentRoutes(authGroup, c)

		// 3. 管理员接口
		admin := authGroup.Group("")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		a.registerAdminRoutes(admin, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.POST("/logout", c.auth.Logout)
		public.POST("/reset-password", c.auth.ResetPassword)
		public.GET("/security-questions", c.auth.SecurityQuestions)

		public.GET("/problems", c.problem.ListProblems)
		public.GET("/problems/:id", c.problem.GetProblem)

		public.GET("/daily-puzzle", c.dailyPuzzle.GetToday)

		public.GET("/memory-cards", c.memoryCard.ListCards)
		public.GET("/memory-cards/categories", c.memoryCard.ListCategories)
	}
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	user := group.Group("/user")
	{
		user.GET("", c.user.Me)
		user.GET("/profile-status", c.user.ProfileStatus)
		user.PATCH("/profile", c.user.UpdateProfile)
		user.POST("/password", c.user.ChangePassword)
	}

	progress := group.Group("/progress")
	{
		progress.GET("", c.progress.GetMyProgress)
		progress.POST("", c.progress.SubmitAnswer)
		progress.GET("/summary", c.progress.GetSummary)
		progress.GET("/:id", middleware.SelfOrAdmin("id"), c.progress.GetUserProgress)
	}

	achievements := group.Group("/achievements")
	{
		achievements.GET("", c.achievement.GetMyAchievements)
		achievements.GET("/catalog", c.achievement.GetCatalog)
		achievements.POST("/check", c.achievement.CheckAchievements)
		achievements.GET("/:id", middleware.SelfOrAdmin("id"), c.achievement.GetUserAchievements)
	}

	puzzle := group.Group("/daily-puzzle")
	{
		puzzle.POST("/solve", c.dailyPuzzle.Solve)
		puzzle.GET("/status", c.dailyPuzzle.GetStatus)
	}
}

func (a *App) registerAdminRoutes(group *gin.RouterGroup, c *controllers) {
	users := group.Group("/users")
	{
		users.POST("", c.user.CreateUser)
		users.GET("", c.user.ListUsers)
		users.GET("/:id", c.user.GetUser)
		users.DELETE("/:id", c.user.DeleteUser)
	}

	group.POST("/problems/regenerate", c.problem.Regenerate)
	group.PATCH("/achievements/:id/progress", c.achievement.UpdateProgress)
}
