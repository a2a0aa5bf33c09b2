package controller

import (
	"acaia_backend/internal/model"
	"acaia_backend/internal/repository"
	"acaia_backend/internal/service"
	"acaia_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService *service.ExamService
}

func NewExamController(examService *service.ExamService) *ExamController {
	return &ExamController{ExamService: examService}
}

type GenerateExamRequest struct {
	Subject           string `json:"subject" binding:"required"`
	Difficulty        string `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	NumberOfQuestions int    `json:"numberOfQuestions" binding:"omitempty,min=1,max=50"`
	Duration          int    `json:"duration" binding:"omitempty,min=1"`
}

// GenerateExam godoc
// @Summary AI-generate an exam simulation
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body GenerateExamRequest true "generation parameters"
// @Success 201 {object} util.Response{data=object}
// @Failure 500 {object} util.Response
// @Router /api/v1/exams/generate [post]
func (c *ExamController) GenerateExam(ctx *gin.Context) {
	var req GenerateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationFailed(ctx, err)
		return
	}

	exam, err := c.ExamService.GenerateExam(util.CurrentUser(ctx).ID, service.ExamParams{
		Subject:           req.Subject,
		Difficulty:        model.Difficulty(req.Difficulty),
		NumberOfQuestions: req.NumberOfQuestions,
		Duration:          req.Duration,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, "exam generated", gin.H{"exam": service.NewExamView(exam)})
}

// ListExams godoc
// @Summary List exams, answers hidden
// @Tags exams
// @Produce json
// @Param subject query string false "subject filter"
// @Param difficulty query string false "difficulty filter"
// @Param page query int false "page number"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response{data=object}
// @Router /api/v1/exams [get]
func (c *ExamController) ListExams(ctx *gin.Context) {
	page, limit := pageParams(ctx)
	filter := repository.ExamFilter{
		Subject:    ctx.Query("subject"),
		Difficulty: model.Difficulty(ctx.Query("difficulty")),
	}

	exams, total, err := c.ExamService.ListExams(filter, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"exams":      exams,
		"pagination": paginationOf(page, limit, total),
	})
}

// GetExam godoc
// @Summary Get one exam, answers hidden
// @Tags exams
// @Produce json
// @Param id path int true "exam id"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/v1/exams/{id} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	exam, err := c.ExamService.GetExam(id)
	if err != nil {
		if errors.Is(err, util.ErrExamNotFound) {
			util.NotFound(ctx, "exam not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"exam": exam})
}

type SubmitExamRequest struct {
	Answers   []service.SubmitAnswer `json:"answers" binding:"required"`
	TimeSpent int                    `json:"timeSpent" binding:"omitempty,min=0"`
}

// SubmitExam godoc
// @Summary Submit answers and receive the score
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "exam id"
// @Param body body SubmitExamRequest true "answers in question order"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/exams/{id}/submit [post]
func (c *ExamController) SubmitExam(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req SubmitExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationFailed(ctx, err)
		return
	}

	result, err := c.ExamService.SubmitExam(util.CurrentUser(ctx).ID, id, req.Answers, req.TimeSpent)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrExamNotFound):
			util.NotFound(ctx, "exam not found")
		case errors.Is(err, util.ErrAlreadySubmitted):
			util.Conflict(ctx, "you have already submitted this exam")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.SuccessMsg(ctx, "exam submitted", result)
}

// Results godoc
// @Summary Get the caller's own submission
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param id path int true "exam id"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/v1/exams/{id}/results [get]
func (c *ExamController) Results(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	submission, err := c.ExamService.Results(util.CurrentUser(ctx).ID, id)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrExamNotFound):
			util.NotFound(ctx, "exam not found")
		case errors.Is(err, util.ErrSubmissionNotFound):
			util.NotFound(ctx, "you have not submitted this exam")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"submission": submission})
}

// Stats godoc
// @Summary Aggregate submission statistics, creator or admin only
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param id path int true "exam id"
// @Success 200 {object} util.Response{data=object}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/exams/{id}/stats [get]
func (c *ExamController) Stats(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	stats, err := c.ExamService.Stats(util.CurrentUser(ctx), id)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrExamNotFound):
			util.NotFound(ctx, "exam not found")
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"stats": stats})
}
