package controller

import (
	"formapro_backend/internal/service"
	"formapro_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	Progress *service.ProgressService
}

func NewProgressController(progress *service.ProgressService) *ProgressController {
	return &ProgressController{Progress: progress}
}

// MarkStarted godoc
// @Summary Mark a module as started
// @Description Idempotent: restarting an in_progress or completed module changes nothing.
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "enrollment id"
// @Param moduleId path string true "module id"
// @Success 200 {object} util.Response{data=model.ModuleProgress}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "enrollment not active"
// @Router /api/v1/enrollments/{id}/modules/{moduleId}/start [post]
func (c *ProgressController) MarkStarted(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	out, err := c.Progress.MarkStarted(claims.UserID, ctx.Param("id"), ctx.Param("moduleId"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, out)
}

// swagger:model UpdateProgressRequest
type UpdateProgressRequest struct {
	Percentage int `json:"percentage" binding:"min=0,max=100"`
	// TimeDelta is additional time spent since the previous report, in minutes.
	TimeDelta int `json:"timeDelta" binding:"min=0"`
}

// UpdateProgress godoc
// @Summary Report progress within a module
// @Description Percentage can only grow; timeDelta accumulates.
// @Tags progress
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "enrollment id"
// @Param moduleId path string true "module id"
// @Param body body UpdateProgressRequest true "progress report"
// @Success 200 {object} util.Response{data=model.ModuleProgress}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/enrollments/{id}/modules/{moduleId}/progress [put]
func (c *ProgressController) UpdateProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	out, err := c.Progress.UpdateProgress(claims.UserID, ctx.Param("id"), ctx.Param("moduleId"), req.Percentage, req.TimeDelta)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, out)
}

// MarkCompleted godoc
// @Summary Mark a module as completed
// @Description Pass-required quiz modules refuse with 412 until a passing attempt exists.
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "enrollment id"
// @Param moduleId path string true "module id"
// @Success 200 {object} util.Response{data=model.ModuleProgress}
// @Failure 404 {object} util.Response
// @Failure 412 {object} util.Response "mandatory quiz not passed"
// @Router /api/v1/enrollments/{id}/modules/{moduleId}/complete [post]
func (c *ProgressController) MarkCompleted(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	out, err := c.Progress.MarkCompleted(claims.UserID, ctx.Param("id"), ctx.Param("moduleId"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, out)
}
