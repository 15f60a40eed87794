package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/devcamper/internal/app/controllers"
	"github.com/yigit/devcamper/internal/app/models"
	"github.com/yigit/devcamper/internal/app/repositories"
	"github.com/yigit/devcamper/internal/middleware"
	"github.com/yigit/devcamper/internal/pkg/query"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	bootcampController *controllers.BootcampController,
	courseController *controllers.CourseController,
	userController *controllers.UserController,
	finder query.Finder,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	publishers := middleware.Authorize(models.RolePublisher, models.RoleAdmin)

	// --- Bootcamp routes ---
	bootcamps := v1.Group("/bootcamps")
	{
		bootcamps.GET("", middleware.AdvancedResults(finder, repositories.BootcampResource, "courses"), bootcampController.GetBootcamps)
		bootcamps.GET("/radius/:zipcode/:distance", bootcampController.GetBootcampsInRadius)
		bootcamps.GET("/:id", bootcampController.GetBootcamp)
		bootcamps.GET("/:id/courses", courseController.GetBootcampCourses)

		// Publisher and admin routes
		bootcampsProtected := bootcamps.Group("")
		bootcampsProtected.Use(authMiddleware.Protect(), publishers)
		{
			bootcampsProtected.POST("", bootcampController.CreateBootcamp)
			bootcampsProtected.PUT("/:id", bootcampController.UpdateBootcamp)
			bootcampsProtected.DELETE("/:id", bootcampController.DeleteBootcamp)
			bootcampsProtected.PUT("/:id/photo", bootcampController.UploadPhoto)
			bootcampsProtected.POST("/:id/courses", courseController.CreateCourse)
		}
	}

	// --- Course routes ---
	courses := v1.Group("/courses")
	{
		courses.GET("", middleware.AdvancedResults(finder, repositories.CourseResource, "bootcamp"), courseController.GetCourses)
		courses.GET("/:id", courseController.GetCourse)

		coursesProtected := courses.Group("")
		coursesProtected.Use(authMiddleware.Protect(), publishers)
		{
			coursesProtected.PUT("/:id", courseController.UpdateCourse)
			coursesProtected.DELETE("/:id", courseController.DeleteCourse)
		}
	}

	// --- Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/logout", authController.Logout)
		auth.POST("/forgotpassword", authController.ForgotPassword)
		auth.PUT("/resetpassword/:resettoken", authController.ResetPassword)

		authProtected := auth.Group("")
		authProtected.Use(authMiddleware.Protect())
		{
			authProtected.GET("/me", authController.GetMe)
			authProtected.PUT("/userdetails", authController.UpdateDetails)
			authProtected.PUT("/userpassword", authController.UpdatePassword)
		}
	}

	// --- Admin user routes ---
	users := v1.Group("/users")
	users.Use(authMiddleware.Protect(), middleware.Authorize(models.RoleAdmin))
	{
		users.GET("", middleware.AdvancedResults(finder, repositories.UserResource), userController.GetUsers)
		users.POST("", userController.CreateUser)
		users.GET("/:id", userController.GetUser)
		users.PUT("/:id", userController.UpdateUser)
		users.DELETE("/:id", userController.DeleteUser)
	}
}
