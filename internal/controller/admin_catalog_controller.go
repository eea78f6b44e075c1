package controller

import (
	"strconv"

	"formapro_backend/internal/service"
	"formapro_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminCatalogController exposes instructor authoring endpoints. Routes are
// guarded by the role middleware; only instructors and admins reach them.
type AdminCatalogController struct {
	Admin *service.AdminCatalogService
}

func NewAdminCatalogController(admin *service.AdminCatalogService) *AdminCatalogController {
	return &AdminCatalogController{Admin: admin}
}

// CreateFormation godoc
// @Summary Create a draft formation
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.FormationInput true "formation data"
// @Success 201 {object} util.Response{data=model.Formation}
// @Failure 400 {object} util.Response
// @Router /api/v1/admin/formations [post]
func (c *AdminCatalogController) CreateFormation(ctx *gin.Context) {
	var req service.FormationInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	f, err := c.Admin.CreateFormation(req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, f)
}

// ListFormations godoc
// @Summary List formations in every status
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page number" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/v1/admin/formations [get]
func (c *AdminCatalogController) ListFormations(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	list, total, err := c.Admin.ListFormations(page, limit)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: list, Total: total, Page: page, Limit: limit})
}

// GetFormation godoc
// @Summary Formation detail for authoring, answer keys included
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "formation id"
// @Success 200 {object} util.Response{data=model.Formation}
// @Failure 404 {object} util.Response
// @Router /api/v1/admin/formations/{id} [get]
func (c *AdminCatalogController) GetFormation(ctx *gin.Context) {
	f, err := c.Admin.GetFormation(ctx.Param("id"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, f)
}

// UpdateFormation godoc
// @Summary Update a draft formation
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "formation id"
// @Param body body service.FormationInput true "formation data"
// @Success 200 {object} util.Response{data=model.Formation}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "formation is published"
// @Router /api/v1/admin/formations/{id} [put]
func (c *AdminCatalogController) UpdateFormation(ctx *gin.Context) {
	var req service.FormationInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	f, err := c.Admin.UpdateFormation(ctx.Param("id"), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, f)
}

// DeleteFormation godoc
// @Summary Delete a draft formation
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "formation id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "formation is published"
// @Router /api/v1/admin/formations/{id} [delete]
func (c *AdminCatalogController) DeleteFormation(ctx *gin.Context) {
	if err := c.Admin.DeleteFormation(ctx.Param("id")); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Publish godoc
// @Summary Publish a formation
// @Description Validates structure before publishing; a published formation is frozen.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "formation id"
// @Success 200 {object} util.Response{data=model.Formation}
// @Failure 400 {object} util.Response "structural validation failed"
// @Failure 404 {object} util.Response
// @Router /api/v1/admin/formations/{id}/publish [post]
func (c *AdminCatalogController) Publish(ctx *gin.Context) {
	f, err := c.Admin.Publish(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, f)
}

// Archive godoc
// @Summary Archive a formation
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "formation id"
// @Success 200 {object} util.Response{data=model.Formation}
// @Failure 404 {object} util.Response
// @Router /api/v1/admin/formations/{id}/archive [post]
func (c *AdminCatalogController) Archive(ctx *gin.Context) {
	f, err := c.Admin.Archive(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, f)
}

// AddModule godoc
// @Summary Add a module to a draft formation
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "formation id"
// @Param body body service.ModuleInput true "module data"
// @Success 201 {object} util.Response{data=model.Module}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "formation is published"
// @Router /api/v1/admin/formations/{id}/modules [post]
func (c *AdminCatalogController) AddModule(ctx *gin.Context) {
	var req service.ModuleInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	m, err := c.Admin.AddModule(ctx.Param("id"), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, m)
}

// UpdateModule godoc
// @Summary Update a module of a draft formation
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path string true "module id"
// @Param body body service.ModuleInput true "module data"
// @Success 200 {object} util.Response{data=model.Module}
// @Failure 404 {object} util.Response
// @Router /api/v1/admin/modules/{moduleId} [put]
func (c *AdminCatalogController) UpdateModule(ctx *gin.Context) {
	var req service.ModuleInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	m, err := c.Admin.UpdateModule(ctx.Param("moduleId"), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, m)
}

// DeleteModule godoc
// @Summary Delete a module from a draft formation
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path string true "module id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/admin/modules/{moduleId} [delete]
func (c *AdminCatalogController) DeleteModule(ctx *gin.Context) {
	if err := c.Admin.DeleteModule(ctx.Param("moduleId")); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UpsertQuiz godoc
// @Summary Create or update the quiz of a module
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path string true "module id"
// @Param body body service.QuizInput true "quiz settings"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 404 {object} util.Response
// @Router /api/v1/admin/modules/{moduleId}/quiz [put]
func (c *AdminCatalogController) UpsertQuiz(ctx *gin.Context) {
	var req service.QuizInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.Admin.UpsertQuiz(ctx.Param("moduleId"), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// AddQuestion godoc
// @Summary Add a question with its answer key to a quiz
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path string true "quiz id"
// @Param body body service.QuestionInput true "question with answers"
// @Success 201 {object} util.Response{data=model.QuizQuestion}
// @Failure 400 {object} util.Response "no correct answer provided"
// @Failure 404 {object} util.Response
// @Router /api/v1/admin/quizzes/{quizId}/questions [post]
func (c *AdminCatalogController) AddQuestion(ctx *gin.Context) {
	var req service.QuestionInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Admin.AddQuestion(ctx.Param("quizId"), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param questionId path string true "question id"
// @Success 200 {object} util.Response
// @Router /api/v1/admin/questions/{questionId} [delete]
func (c *AdminCatalogController) DeleteQuestion(ctx *gin.Context) {
	if err := c.Admin.DeleteQuestion(ctx.Param("questionId")); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
