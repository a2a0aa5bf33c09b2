package controller

import (
	"acaia_backend/internal/model"
	"acaia_backend/internal/service"
	"acaia_backend/internal/util"
	"errors"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	ChatService *service.ChatService
}

func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

func pathID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func pageParams(ctx *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

func paginationOf(page, limit int, total int64) util.Pagination {
	return util.Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

type CreateChatRequest struct {
	Title      string `json:"title" binding:"required"`
	Subject    string `json:"subject" binding:"required"`
	Difficulty string `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
}

// CreateChat godoc
// @Summary Start a new tutoring chat
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateChatRequest true "chat metadata"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /api/v1/chat [post]
func (c *ChatController) CreateChat(ctx *gin.Context) {
	var req CreateChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationFailed(ctx, err)
		return
	}

	chat, err := c.ChatService.CreateChat(util.CurrentUser(ctx).ID, service.CreateChatInput{
		Title:      req.Title,
		Subject:    req.Subject,
		Difficulty: model.Difficulty(req.Difficulty),
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, "chat created", gin.H{"chat": chat})
}

// ListChats godoc
// @Summary List the caller's chats
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param page query int false "page number"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response{data=object}
// @Router /api/v1/chat [get]
func (c *ChatController) ListChats(ctx *gin.Context) {
	page, limit := pageParams(ctx)

	chats, total, err := c.ChatService.ListChats(util.CurrentUser(ctx).ID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"chats":      chats,
		"pagination": paginationOf(page, limit, total),
	})
}

// GetChat godoc
// @Summary Get one chat with its messages
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param id path int true "chat id"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/v1/chat/{id} [get]
func (c *ChatController) GetChat(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	chat, err := c.ChatService.GetChat(util.CurrentUser(ctx).ID, id)
	if err != nil {
		if errors.Is(err, util.ErrChatNotFound) {
			util.NotFound(ctx, "chat not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"chat": chat})
}

type UpdateChatRequest struct {
	Title      string `json:"title"`
	Subject    string `json:"subject"`
	Difficulty string `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
}

// UpdateChat godoc
// @Summary Update chat title, subject or difficulty
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "chat id"
// @Param body body UpdateChatRequest true "fields to update"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/v1/chat/{id} [put]
func (c *ChatController) UpdateChat(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req UpdateChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationFailed(ctx, err)
		return
	}

	chat, err := c.ChatService.UpdateChat(util.CurrentUser(ctx).ID, id, service.UpdateChatInput{
		Title:      req.Title,
		Subject:    req.Subject,
		Difficulty: model.Difficulty(req.Difficulty),
	})
	if err != nil {
		if errors.Is(err, util.ErrChatNotFound) {
			util.NotFound(ctx, "chat not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.SuccessMsg(ctx, "chat updated", gin.H{"chat": chat})
}

// DeleteChat godoc
// @Summary Soft-delete a chat
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param id path int true "chat id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/chat/{id} [delete]
func (c *ChatController) DeleteChat(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := c.ChatService.DeleteChat(util.CurrentUser(ctx).ID, id); err != nil {
		if errors.Is(err, util.ErrChatNotFound) {
			util.NotFound(ctx, "chat not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.SuccessMsg(ctx, "chat deleted", nil)
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SendMessage godoc
// @Summary Send a message and receive the AI reply
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "chat id"
// @Param body body SendMessageRequest true "message content"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Failure 500 {object} util.Response
// @Router /api/v1/chat/{id}/messages [post]
func (c *ChatController) SendMessage(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationFailed(ctx, err)
		return
	}

	result, err := c.ChatService.SendMessage(util.CurrentUser(ctx).ID, id, req.Content)
	if err != nil {
		if errors.Is(err, util.ErrChatNotFound) {
			util.NotFound(ctx, "chat not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.SuccessMsg(ctx, "message sent", result)
}
