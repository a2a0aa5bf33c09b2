package controller

import (
	"acaia_backend/internal/service"
	"acaia_backend/internal/util"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
)

type CareerController struct {
	CareerService *service.CareerService
}

func NewCareerController(careerService *service.CareerService) *CareerController {
	return &CareerController{CareerService: careerService}
}

// Paths godoc
// @Summary Static career path catalogue
// @Tags career
// @Produce json
// @Param subject query string false "match against path skills"
// @Success 200 {object} util.Response{data=object}
// @Router /api/v1/career/paths [get]
func (c *CareerController) Paths(ctx *gin.Context) {
	paths := c.CareerService.Paths(ctx.Query("subject"))
	util.Success(ctx, gin.H{
		"careerPaths": paths,
		"total":       len(paths),
	})
}

// LearningPath godoc
// @Summary Look up a learning path by id and level
// @Tags career
// @Produce json
// @Param careerPath query string true "learning path id"
// @Param currentLevel query string false "level, defaults to beginner"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/v1/career/learning-path [get]
func (c *CareerController) LearningPath(ctx *gin.Context) {
	pathID := ctx.Query("careerPath")
	level := ctx.Query("currentLevel")

	path, err := c.CareerService.GetLearningPath(pathID, level)
	if err != nil {
		if errors.Is(err, util.ErrCareerPathNotFound) {
			util.NotFound(ctx, "career path not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"careerPath":        pathID,
		"currentLevel":      path.Level,
		"learningPath":      path,
		"totalSteps":        len(path.Steps),
		"estimatedDuration": path.TotalDuration,
	})
}

type AssessmentRequest struct {
	Skills     []string `json:"skills" binding:"required"`
	Experience float64  `json:"experience" binding:"min=0"`
	Education  string   `json:"education"`
}

// Assessment godoc
// @Summary Heuristic skill scoring
// @Tags career
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AssessmentRequest true "skills and experience"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /api/v1/career/assessment [post]
func (c *CareerController) Assessment(ctx *gin.Context) {
	var req AssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationFailed(ctx, err)
		return
	}

	assessment := c.CareerService.AssessSkills(req.Skills, req.Experience)
	util.SuccessMsg(ctx, "skill assessment complete", gin.H{
		"assessment": assessment,
		"userId":     util.CurrentUser(ctx).ID,
	})
}

type AdviceRequest struct {
	CurrentSkills []string `json:"currentSkills"`
	Interests     []string `json:"interests"`
	Experience    string   `json:"experience"`
	Goals         string   `json:"goals"`
}

// Advice godoc
// @Summary AI-generated career advice
// @Tags career
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AdviceRequest true "career profile"
// @Success 200 {object} util.Response{data=object}
// @Failure 500 {object} util.Response
// @Router /api/v1/career/advice [post]
func (c *CareerController) Advice(ctx *gin.Context) {
	var req AdviceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationFailed(ctx, err)
		return
	}

	advice, err := c.CareerService.Advice(service.CareerProfile{
		CurrentSkills: req.CurrentSkills,
		Interests:     req.Interests,
		Experience:    req.Experience,
		Goals:         req.Goals,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.SuccessMsg(ctx, "career advice generated", gin.H{
		"advice":      advice,
		"userId":      util.CurrentUser(ctx).ID,
		"generatedAt": time.Now(),
	})
}
