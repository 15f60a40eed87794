package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/devcamper/internal/app/models/dto"
	"github.com/yigit/devcamper/internal/app/services"
	"github.com/yigit/devcamper/internal/middleware"
	"github.com/yigit/devcamper/internal/pkg/apperrors"
)

// BootcampController handles bootcamp-related operations
type BootcampController struct {
	bootcampService services.BootcampService
}

// NewBootcampController creates a new BootcampController
func NewBootcampController(bootcampService services.BootcampService) *BootcampController {
	return &BootcampController{
		bootcampService: bootcampService,
	}
}

// GetBootcamps lists bootcamps
// @Summary List bootcamps
// @Description Filter with field=value or field[op]=value (gt, gte, lt, lte, in), choose fields with select, order with sort, paginate with page and limit
// @Tags bootcamps
// @Produce json
// @Param select query string false "Comma separated fields" example(name,description)
// @Param sort query string false "Comma separated sort keys, prefix - for descending" example(-createdAt)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(25)
// @Success 200 {object} dto.AdvancedResults "Bootcamps with their courses"
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Router /bootcamps [get]
func (c *BootcampController) GetBootcamps(ctx *gin.Context) {
	advancedResults(ctx)
}

// GetBootcamp retrieves a bootcamp by ID
// @Summary Get a bootcamp
// @Tags bootcamps
// @Produce json
// @Param id path string true "Bootcamp ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.Bootcamp} "Bootcamp"
// @Failure 404 {object} dto.ErrorResponse "Bootcamp not found"
// @Router /bootcamps/{id} [get]
func (c *BootcampController) GetBootcamp(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	bootcamp, err := c.bootcampService.GetBootcamp(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(bootcamp))
}

// CreateBootcamp handles bootcamp creation
// @Summary Create a bootcamp
// @Description Publishers may own a single bootcamp; admins are not limited
// @Tags bootcamps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBootcampRequest true "Bootcamp information"
// @Success 201 {object} dto.APIResponse{data=models.Bootcamp} "Bootcamp created"
// @Failure 400 {object} dto.ErrorResponse "Validation error or address could not be geocoded"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Role not allowed or bootcamp already published"
// @Failure 409 {object} dto.ErrorResponse "Bootcamp name already exists"
// @Router /bootcamps [post]
func (c *BootcampController) CreateBootcamp(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateBootcampRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	bootcamp, err := c.bootcampService.CreateBootcamp(ctx.Request.Context(), user, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewDataResponse(bootcamp))
}

// UpdateBootcamp handles bootcamp updates
// @Summary Update a bootcamp
// @Tags bootcamps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bootcamp ID" Format(uuid)
// @Param request body dto.UpdateBootcampRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Bootcamp} "Bootcamp updated"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Not the owner of the bootcamp"
// @Failure 404 {object} dto.ErrorResponse "Bootcamp not found"
// @Router /bootcamps/{id} [put]
func (c *BootcampController) UpdateBootcamp(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateBootcampRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	bootcamp, err := c.bootcampService.UpdateBootcamp(ctx.Request.Context(), id, user, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(bootcamp))
}

// DeleteBootcamp deletes a bootcamp and its courses
// @Summary Delete a bootcamp
// @Tags bootcamps
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bootcamp ID" Format(uuid)
// @Success 200 {object} dto.APIResponse "Bootcamp deleted"
// @Failure 401 {object} dto.ErrorResponse "Not the owner of the bootcamp"
// @Failure 404 {object} dto.ErrorResponse "Bootcamp not found"
// @Router /bootcamps/{id} [delete]
func (c *BootcampController) DeleteBootcamp(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.bootcampService.DeleteBootcamp(ctx.Request.Context(), id, user); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(gin.H{}))
}

// GetBootcampsInRadius finds bootcamps within a distance of a zipcode
// @Summary Bootcamps within a radius
// @Tags bootcamps
// @Produce json
// @Param zipcode path string true "Zipcode" example(02118)
// @Param distance path number true "Distance in miles" example(10)
// @Success 200 {object} dto.APIResponse{data=[]models.Bootcamp} "Bootcamps in range"
// @Failure 400 {object} dto.ErrorResponse "Invalid distance or zipcode"
// @Router /bootcamps/radius/{zipcode}/{distance} [get]
func (c *BootcampController) GetBootcampsInRadius(ctx *gin.Context) {
	zipcode := ctx.Param("zipcode")
	distance, err := strconv.ParseFloat(ctx.Param("distance"), 64)
	if err != nil || distance < 0 {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("invalid distance: %s", ctx.Param("distance")))
		return
	}

	bootcamps, err := c.bootcampService.GetBootcampsInRadius(ctx.Request.Context(), zipcode, distance)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewListResponse(bootcamps, len(bootcamps)))
}

// UploadPhoto stores a photo for a bootcamp
// @Summary Upload a bootcamp photo
// @Tags bootcamps
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bootcamp ID" Format(uuid)
// @Param file formData file true "Image file"
// @Success 200 {object} dto.PhotoResponse "Stored file name"
// @Failure 400 {object} dto.ErrorResponse "Missing file, not an image or too large"
// @Failure 401 {object} dto.ErrorResponse "Not the owner of the bootcamp"
// @Failure 404 {object} dto.ErrorResponse "Bootcamp not found"
// @Failure 500 {object} dto.ErrorResponse "Problem with file upload"
// @Router /bootcamps/{id}/photo [put]
func (c *BootcampController) UploadPhoto(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("please upload a file"))
		return
	}

	name, err := c.bootcampService.UploadPhoto(ctx.Request.Context(), id, user, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.PhotoResponse{Success: true, Data: name})
}
