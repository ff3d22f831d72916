package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schooladmin/internal/app/models/dto"
	"github.com/yigit/schooladmin/internal/app/services"
	"github.com/yigit/schooladmin/internal/middleware"
)

// SemesterController serves the seeded semester list
type SemesterController struct {
	semesterService services.SemesterService
}

// NewSemesterController creates a new SemesterController
func NewSemesterController(semesterService services.SemesterService) *SemesterController {
	return &SemesterController{semesterService: semesterService}
}

// GetAllSemesters retrieves all semesters
// @Summary Get all semesters
// @Tags semesters
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Semester}
// @Router /semesters [get]
func (c *SemesterController) GetAllSemesters(ctx *gin.Context) {
	semesters, err := c.semesterService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(semesters, "Semesters retrieved successfully"))
}
