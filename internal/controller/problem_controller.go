package controller

import (
	"acaia_backend/internal/model"
	"acaia_backend/internal/repository"
	"acaia_backend/internal/service"
	"acaia_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ProblemController struct {
	ProblemService *service.ProblemService
}

func NewProblemController(problemService *service.ProblemService) *ProblemController {
	return &ProblemController{ProblemService: problemService}
}

type GenerateProblemRequest struct {
	Subject            string   `json:"subject" binding:"required"`
	Difficulty         string   `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	Type               string   `json:"type" binding:"omitempty,oneof=multiple-choice open-ended coding essay"`
	LearningObjectives []string `json:"learningObjectives"`
}

// GenerateProblem godoc
// @Summary AI-generate a practice problem
// @Tags problems
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body GenerateProblemRequest true "generation parameters"
// @Success 201 {object} util.Response{data=object}
// @Failure 500 {object} util.Response
// @Router /api/v1/problems/generate [post]
func (c *ProblemController) GenerateProblem(ctx *gin.Context) {
	var req GenerateProblemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationFailed(ctx, err)
		return
	}

	problem, err := c.ProblemService.GenerateProblem(util.CurrentUser(ctx).ID, service.ProblemParams{
		Subject:            req.Subject,
		Difficulty:         model.Difficulty(req.Difficulty),
		Type:               model.ProblemType(req.Type),
		LearningObjectives: req.LearningObjectives,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, "problem generated", gin.H{"problem": problem})
}

// ListProblems godoc
// @Summary List problems with optional filters
// @Tags problems
// @Produce json
// @Param subject query string false "subject filter"
// @Param difficulty query string false "difficulty filter"
// @Param type query string false "type filter"
// @Param page query int false "page number"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response{data=object}
// @Router /api/v1/problems [get]
func (c *ProblemController) ListProblems(ctx *gin.Context) {
	page, limit := pageParams(ctx)
	filter := repository.ProblemFilter{
		Subject:    ctx.Query("subject"),
		Difficulty: model.Difficulty(ctx.Query("difficulty")),
		Type:       model.ProblemType(ctx.Query("type")),
	}

	problems, total, err := c.ProblemService.ListProblems(filter, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"problems":   problems,
		"pagination": paginationOf(page, limit, total),
	})
}

// GetProblem godoc
// @Summary Get one problem
// @Tags problems
// @Produce json
// @Param id path int true "problem id"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/v1/problems/{id} [get]
func (c *ProblemController) GetProblem(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	problem, err := c.ProblemService.GetProblem(id)
	if err != nil {
		if errors.Is(err, util.ErrProblemNotFound) {
			util.NotFound(ctx, "problem not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"problem": problem})
}

type SolveProblemRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// SolveProblem godoc
// @Summary Submit an answer for grading
// @Tags problems
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "problem id"
// @Param body body SolveProblemRequest true "submitted answer"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/v1/problems/{id}/solve [post]
func (c *ProblemController) SolveProblem(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req SolveProblemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationFailed(ctx, err)
		return
	}

	result, err := c.ProblemService.SolveProblem(id, req.Answer)
	if err != nil {
		if errors.Is(err, util.ErrProblemNotFound) {
			util.NotFound(ctx, "problem not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	message := "incorrect answer"
	if result.IsCorrect {
		message = "correct answer"
	}
	util.SuccessMsg(ctx, message, result)
}

type RateProblemRequest struct {
	Rating float64 `json:"rating" binding:"required"`
}

// RateProblem godoc
// @Summary Rate a problem from 1 to 5
// @Tags problems
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "problem id"
// @Param body body RateProblemRequest true "rating"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/problems/{id}/rate [post]
func (c *ProblemController) RateProblem(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req RateProblemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationFailed(ctx, err)
		return
	}

	newRating, err := c.ProblemService.RateProblem(id, req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidRating):
			util.BadRequest(ctx, "rating must be between 1 and 5")
		case errors.Is(err, util.ErrProblemNotFound):
			util.NotFound(ctx, "problem not found")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.SuccessMsg(ctx, "rating recorded", gin.H{"newRating": newRating})
}

type CreateProblemRequest struct {
	Title              string               `json:"title" binding:"required"`
	Description        string               `json:"description" binding:"required"`
	Subject            string               `json:"subject" binding:"required"`
	Difficulty         string               `json:"difficulty" binding:"required,oneof=beginner intermediate advanced"`
	Type               string               `json:"type" binding:"required,oneof=multiple-choice open-ended coding essay"`
	Content            model.ProblemContent `json:"content" binding:"required"`
	LearningObjectives []string             `json:"learningObjectives"`
	Tags               []string             `json:"tags"`
}

// CreateProblem godoc
// @Summary Author a problem manually
// @Tags problems
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateProblemRequest true "problem definition"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /api/v1/problems [post]
func (c *ProblemController) CreateProblem(ctx *gin.Context) {
	var req CreateProblemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationFailed(ctx, err)
		return
	}

	problem, err := c.ProblemService.CreateProblem(util.CurrentUser(ctx).ID, service.CreateProblemInput{
		Title:              req.Title,
		Description:        req.Description,
		Subject:            req.Subject,
		Difficulty:         model.Difficulty(req.Difficulty),
		Type:               model.ProblemType(req.Type),
		Content:            req.Content,
		LearningObjectives: req.LearningObjectives,
		Tags:               req.Tags,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, "problem created", gin.H{"problem": problem})
}
