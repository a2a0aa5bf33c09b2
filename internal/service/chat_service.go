package service

import (
	"acaia_backend/internal/model"
	"acaia_backend/internal/repository"
	"time"
)

// maxHistoryMessages bounds the conversation window sent to the AI.
const maxHistoryMessages = 20

type ChatService struct {
	chats repository.ChatRepository
	ai    AIClient
}

func NewChatService(chats repository.ChatRepository, ai AIClient) *ChatService {
	return &ChatService{chats: chats, ai: ai}
}

type CreateChatInput struct {
	Title      string
	Subject    string
	Difficulty model.Difficulty
}

func (s *ChatService) CreateChat(userID uint, in CreateChatInput) (*model.Chat, error) {
	difficulty := in.Difficulty
	if difficulty == "" {
		difficulty = model.Beginner
	}

	chat := &model.Chat{
		UserID:             userID,
		Title:              in.Title,
		Subject:            in.Subject,
		IsActive:           true,
		Difficulty:         difficulty,
		LearningObjectives: model.StringList{},
		EstimatedDuration:  30,
		LastActivity:       time.Now(),
	}
	if err := s.chats.CreateChat(chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *ChatService) ListChats(userID uint, page, limit int) ([]model.Chat, int64, error) {
	return s.chats.ListChats(userID, page, limit)
}

func (s *ChatService) GetChat(userID, chatID uint) (*model.Chat, error) {
	return s.chats.FindChat(userID, chatID)
}

type UpdateChatInput struct {
	Title      string
	Subject    string
	Difficulty model.Difficulty
}

func (s *ChatService) UpdateChat(userID, chatID uint, in UpdateChatInput) (*model.Chat, error) {
	chat, err := s.chats.FindChat(userID, chatID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		chat.Title = in.Title
	}
	if in.Subject != "" {
		chat.Subject = in.Subject
	}
	if in.Difficulty != "" {
		chat.Difficulty = in.Difficulty
	}

	if err := s.chats.UpdateChat(chat); err != nil {
		return nil, err
	}
	return chat, nil
}

type SentMessage struct {
	UserMessage      model.ChatMessage `json:"userMessage"`
	AssistantMessage model.ChatMessage `json:"assistantMessage"`
	TotalTokens      int               `json:"totalTokens"`
}

// SendMessage appends the user turn, sends the full history to the AI
// and appends the assistant turn. Both messages persist atomically.
func (s *ChatService) SendMessage(userID, chatID uint, content string) (*SentMessage, error) {
	chat, err := s.chats.FindChat(userID, chatID)
	if err != nil {
		return nil, err
	}

	userMessage := model.ChatMessage{
		Role:      model.RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
	chat.AppendMessage(userMessage)

	reply, tokens, err := s.ai.ChatReply(chat.RecentMessages(maxHistoryMessages), ChatContext{
		Subject:    chat.Subject,
		Difficulty: chat.Difficulty,
	})
	if err != nil {
		return nil, err
	}

	assistantMessage := model.ChatMessage{
		Role:      model.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now(),
	}
	chat.AppendMessage(assistantMessage)
	chat.TotalTokens += tokens
	if err := s.chats.AddMessages(chat, []model.ChatMessage{userMessage, assistantMessage}); err != nil {
		return nil, err
	}

	return &SentMessage{
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
		TotalTokens:      chat.TotalTokens,
	}, nil
}

func (s *ChatService) DeleteChat(userID, chatID uint) error {
	return s.chats.SoftDeleteChat(userID, chatID)
}
