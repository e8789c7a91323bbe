package handlers

import (
	"time"

	"upbmy/internal/domain"
	"upbmy/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Auth     *AuthHandler
	Courses  *CourseHandler
	Videos   *VideoHandler
	Views    *ViewHandler
	Coupons  *CouponHandler
	Ratings  *RatingHandler
	External *ExternalHandler
	Admin    *AdminHandler

	Authenticate gin.HandlerFunc
	OptionalAuth gin.HandlerFunc
	Limiter      *middleware.RateLimiter
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	r.Use(cors.New(config))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", d.Auth.Register)
			auth.POST("/login", d.Limiter.Limit("login", 5, time.Minute), d.Auth.Login)
		}

		// публичное чтение каталога
		api.GET("/categories", d.Courses.Categories)
		api.GET("/courses", d.Courses.List)
		api.GET("/courses/:id", d.Courses.GetOne)
		api.GET("/courses/:id/videos", d.Videos.ListByCourse)
		api.GET("/videos/:id", d.Videos.GetOne)
		api.GET("/videos/:id/file", d.Videos.Stream)
		api.GET("/ratings/course/:courseId/summary", d.Ratings.Summary)
		api.GET("/coupons/course/:courseId/available", d.Coupons.Available)
		api.GET("/coupons/course/:courseId", d.Coupons.ListByCourse)

		// просмотры: регистрировать можно анонимно
		api.POST("/views/video/:videoId", d.OptionalAuth, d.Views.Register)
		api.GET("/views/video/:videoId/count", d.Views.VideoCount)
		api.GET("/views/course/:courseId/count", d.Views.CourseCount)

		// эндпоинты для партнёров
		api.GET("/snack/views-validation", d.External.ViewsValidation)
		api.GET("/external/courses/top-views", d.External.TopCourses)

		authed := api.Group("")
		authed.Use(d.Authenticate)
		{
			authed.GET("/views/my-history", d.Views.MyHistory)
			authed.POST("/coupons/mark-used", d.Coupons.MarkUsed)

			authed.POST("/ratings/course/:courseId", d.Ratings.Rate)
			authed.GET("/ratings/course/:courseId/mine", d.Ratings.Mine)
			authed.DELETE("/ratings/course/:courseId", d.Ratings.Delete)

			instructor := authed.Group("")
			instructor.Use(middleware.RequireRoles(domain.RoleInstructor, domain.RoleAdmin))
			{
				instructor.GET("/courses/mine", d.Courses.Mine)
				instructor.POST("/courses", d.Courses.Create)
				instructor.PUT("/courses/:id", d.Courses.Update)
				instructor.DELETE("/courses/:id", d.Courses.Delete)
				instructor.POST("/courses/:id/publish", d.Courses.Publish)
				instructor.POST("/courses/:id/videos", d.Videos.Upload)
				instructor.PUT("/videos/:id", d.Videos.Update)
				instructor.DELETE("/videos/:id", d.Videos.Delete)
			}

			admin := authed.Group("/admin")
			admin.Use(middleware.RequireRoles(domain.RoleAdmin))
			{
				admin.GET("/stats", d.Admin.Stats)
				admin.GET("/users", d.Admin.Users)
				admin.PATCH("/users/:id/active", d.Admin.SetUserActive)
				admin.GET("/courses", d.Admin.Courses)
				admin.GET("/coupons", d.Coupons.ListAll)
				admin.GET("/upbolis/test-connection", d.Admin.TestUpbolis)
			}
		}
	}

	return r
}
