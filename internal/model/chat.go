package model

import (
	"time"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Chat is one tutoring conversation owned by a single user.
// swagger:model Chat
type Chat struct {
	BaseModel
	UserID             uint          `gorm:"index;not null" json:"userId"`
	Title              string        `gorm:"size:100;not null" json:"title"`
	Subject            string        `gorm:"size:50;not null" json:"subject"`
	IsActive           bool          `gorm:"default:true" json:"isActive"`
	LastActivity       time.Time     `gorm:"index" json:"lastActivity"`
	Difficulty         Difficulty    `gorm:"type:enum('beginner','intermediate','advanced');default:'beginner'" json:"difficulty"`
	LearningObjectives StringList    `gorm:"type:json" json:"learningObjectives"`
	TotalTokens        int           `gorm:"default:0" json:"totalTokens"`
	EstimatedDuration  int           `gorm:"default:30" json:"estimatedDuration"`
	Messages           []ChatMessage `gorm:"foreignKey:ChatID" json:"messages"`
}

func (Chat) TableName() string {
	return "chats"
}

func (c *Chat) MessageCount() int {
	return len(c.Messages)
}

// AppendMessage adds a message and bumps LastActivity. Messages are
// append-only; nothing ever rewrites an existing row.
func (c *Chat) AppendMessage(msg ChatMessage) {
	c.Messages = append(c.Messages, msg)
	c.LastActivity = msg.Timestamp
}

// RecentMessages returns the last n messages in insertion order.
func (c *Chat) RecentMessages(n int) []ChatMessage {
	if n <= 0 || n >= len(c.Messages) {
		return c.Messages
	}
	return c.Messages[len(c.Messages)-n:]
}

// ChatMessage is one immutable message inside a chat.
// swagger:model ChatMessage
type ChatMessage struct {
	UUIDBase
	ChatID    uint        `gorm:"index;index:idx_chat_ts;not null" json:"chatId"`
	Role      MessageRole `gorm:"type:enum('user','assistant','system');not null" json:"role"`
	Content   string      `gorm:"type:text;not null" json:"content"`
	Timestamp time.Time   `gorm:"index:idx_chat_ts" json:"timestamp"`
	// Optional context carried with the message.
	Subject           string `gorm:"size:50" json:"subject,omitempty"`
	Difficulty        string `gorm:"size:20" json:"difficulty,omitempty"`
	LearningObjective string `gorm:"size:255" json:"learningObjective,omitempty"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
