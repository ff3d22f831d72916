package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schooladmin/internal/app/controllers"
	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/app/models/dto"
	"github.com/yigit/schooladmin/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	subjectController *controllers.SubjectController,
	instructorController *controllers.InstructorController,
	courseController *controllers.CourseController,
	semesterController *controllers.SemesterController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", healthController.Health)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"message": "pong"}, ""))
	})

	// API version group
	v1 := router.Group("/api/v1")
	v1.GET("/health", healthController.Health)

	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	v1.GET("/semesters", semesterController.GetAllSemesters)

	// --- Public read routes ---
	v1.GET("/subjects", subjectController.GetAllSubjects)
	v1.GET("/subjects/:id", subjectController.GetSubjectByID)
	v1.GET("/instructors", instructorController.GetAllInstructors)
	v1.GET("/instructors/:id", instructorController.GetInstructorByID)
	v1.GET("/courses", courseController.GetAllCourses)
	v1.GET("/courses/:id", courseController.GetCourseByID)

	// --- Admin routes ---
	admin := v1.Group("")
	admin.Use(authMiddleware.JWTAuth(), authMiddleware.RoleRequired(string(models.RoleAdmin)))

	subjects := admin.Group("/subjects")
	{
		subjects.POST("", subjectController.CreateSubject)
		subjects.PATCH("/:id", subjectController.UpdateSubject)
		subjects.DELETE("/:id", subjectController.DeleteSubject)
	}

	instructors := admin.Group("/instructors")
	{
		instructors.POST("", instructorController.CreateInstructor)
		instructors.PATCH("/:id", instructorController.UpdateInstructor)
		instructors.DELETE("/:id", instructorController.DeleteInstructor)
	}

	courses := admin.Group("/courses")
	{
		courses.POST("", courseController.CreateCourse)
		courses.PATCH("/:id", courseController.UpdateCourse)
		courses.DELETE("/:id", courseController.DeleteCourse)
	}
}
