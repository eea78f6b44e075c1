package controller

import (
	"strconv"

	"formapro_backend/internal/service"
	"formapro_backend/internal/util"
	"formapro_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Quizzes *service.QuizService
}

func NewQuizController(quizzes *service.QuizService) *QuizController {
	return &QuizController{Quizzes: quizzes}
}

// swagger:model StartAttemptRequest
type StartAttemptRequest struct {
	EnrollmentID string `json:"enrollmentId" binding:"required,uuid"`
}

// StartAttempt godoc
// @Summary Start a new quiz attempt
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "quiz id"
// @Param body body StartAttemptRequest true "enrollment the attempt belongs to"
// @Success 201 {object} util.Response{data=model.QuizAttempt}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "attempt limit reached"
// @Router /api/v1/quizzes/{id}/attempts [post]
func (c *QuizController) StartAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StartAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.Quizzes.StartAttempt(claims.UserID, req.EnrollmentID, ctx.Param("id"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, attempt)
}

// swagger:model SubmitAttemptRequest
type SubmitAttemptRequest struct {
	Answers []service.SubmittedAnswer `json:"answers" binding:"required"`
}

// SubmitAttempt godoc
// @Summary Submit answers for grading
// @Description Grading is server-side and the attempt becomes immutable.
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path string true "attempt id"
// @Param body body SubmitAttemptRequest true "submitted answers"
// @Success 200 {object} util.Response{data=model.QuizAttempt}
// @Failure 400 {object} util.Response "unknown question in submission"
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "attempt already submitted"
// @Router /api/v1/attempts/{attemptId}/submit [post]
func (c *QuizController) SubmitAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.Quizzes.SubmitAttempt(claims.UserID, ctx.Param("attemptId"), req.Answers)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	monitoring.QuizAttempts.WithLabelValues(strconv.FormatBool(attempt.Passed)).Inc()
	util.Success(ctx, attempt)
}

// ListAttempts godoc
// @Summary List the caller's attempts for a quiz within an enrollment
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "quiz id"
// @Param enrollmentId query string true "enrollment id"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Failure 404 {object} util.Response
// @Router /api/v1/quizzes/{id}/attempts [get]
func (c *QuizController) ListAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollmentID := ctx.Query("enrollmentId")
	if enrollmentID == "" {
		util.BadRequest(ctx, "enrollmentId is required")
		return
	}

	out, err := c.Quizzes.ListAttempts(claims.UserID, enrollmentID, ctx.Param("id"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, out)
}
