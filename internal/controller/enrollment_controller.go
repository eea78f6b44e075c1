package controller

import (
	"formapro_backend/internal/service"
	"formapro_backend/internal/util"
	"formapro_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	Enrollments *service.EnrollmentService
}

func NewEnrollmentController(enrollments *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{Enrollments: enrollments}
}

// swagger:model EnrollRequest
type EnrollRequest struct {
	FormationID string `json:"formationId" binding:"required,uuid"`
}

// Enroll godoc
// @Summary Enroll in a published formation
// @Tags enrollments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body EnrollRequest true "target formation"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Failure 400 {object} util.Response "formation not published"
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "already enrolled"
// @Router /api/v1/enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.Enrollments.Enroll(claims.UserID, req.FormationID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	monitoring.EnrollmentCreations.Inc()
	util.Created(ctx, enrollment)
}

// ListMine godoc
// @Summary List the caller's enrollments
// @Tags enrollments
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.EnrollmentSummary}
// @Router /api/v1/enrollments [get]
func (c *EnrollmentController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	out, err := c.Enrollments.ListMine(claims.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, out)
}

// GetDetail godoc
// @Summary Enrollment detail with per-module progress
// @Tags enrollments
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "enrollment id"
// @Success 200 {object} util.Response{data=service.EnrollmentDetail}
// @Failure 404 {object} util.Response
// @Router /api/v1/enrollments/{id} [get]
func (c *EnrollmentController) GetDetail(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	out, err := c.Enrollments.GetDetail(claims.UserID, ctx.Param("id"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, out)
}
