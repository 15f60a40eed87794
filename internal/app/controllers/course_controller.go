package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/devcamper/internal/app/models/dto"
	"github.com/yigit/devcamper/internal/app/services"
	"github.com/yigit/devcamper/internal/middleware"
)

// CourseController handles course-related operations
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{
		courseService: courseService,
	}
}

// GetCourses lists courses across all bootcamps
// @Summary List courses
// @Description Supports the same select, sort, page, limit and filter parameters as the bootcamp listing. Each course embeds its bootcamp name and description.
// @Tags courses
// @Produce json
// @Param select query string false "Comma separated fields"
// @Param sort query string false "Comma separated sort keys"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(25)
// @Success 200 {object} dto.AdvancedResults "Courses"
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Router /courses [get]
func (c *CourseController) GetCourses(ctx *gin.Context) {
	advancedResults(ctx)
}

// GetBootcampCourses lists the courses of one bootcamp
// @Summary List a bootcamp's courses
// @Tags courses
// @Produce json
// @Param id path string true "Bootcamp ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses"
// @Failure 404 {object} dto.ErrorResponse "Bootcamp not found"
// @Router /bootcamps/{id}/courses [get]
func (c *CourseController) GetBootcampCourses(ctx *gin.Context) {
	bootcampID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	courses, err := c.courseService.GetCoursesByBootcamp(ctx.Request.Context(), bootcampID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewListResponse(courses, len(courses)))
}

// GetCourse retrieves a course by ID
// @Summary Get a course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(course))
}

// CreateCourse adds a course to a bootcamp
// @Summary Add a course to a bootcamp
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bootcamp ID" Format(uuid)
// @Param request body dto.CreateCourseRequest true "Course information"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Course created"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Not the owner of the bootcamp"
// @Failure 404 {object} dto.ErrorResponse "Bootcamp not found"
// @Router /bootcamps/{id}/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	bootcampID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), bootcampID, user, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewDataResponse(course))
}

// UpdateCourse handles course updates
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID" Format(uuid)
// @Param request body dto.UpdateCourseRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course updated"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Not the owner of the course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	course, err := c.courseService.UpdateCourse(ctx.Request.Context(), id, user, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(course))
}

// DeleteCourse handles course deletion
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID" Format(uuid)
// @Success 200 {object} dto.APIResponse "Course deleted"
// @Failure 401 {object} dto.ErrorResponse "Not the owner of the course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.DeleteCourse(ctx.Request.Context(), id, user); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(gin.H{}))
}
