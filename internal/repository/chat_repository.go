package repository

import (
	"acaia_backend/internal/model"
	"acaia_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type GormChatRepository struct {
	DB *gorm.DB
}

func NewGormChatRepository(db *gorm.DB) *GormChatRepository {
	return &GormChatRepository{DB: db}
}

func (r *GormChatRepository) CreateChat(chat *model.Chat) error {
	return r.DB.Create(chat).Error
}

func (r *GormChatRepository) FindChat(userID, chatID uint) (*model.Chat, error) {
	var chat model.Chat
	err := r.DB.
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC")
		}).
		Where("id = ? AND user_id = ? AND is_active = ?", chatID, userID, true).
		First(&chat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *GormChatRepository) ListChats(userID uint, page, limit int) ([]model.Chat, int64, error) {
	query := r.DB.Model(&model.Chat{}).Where("user_id = ? AND is_active = ?", userID, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var chats []model.Chat
	err := query.
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC")
		}).
		Order("last_activity DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&chats).Error
	return chats, total, err
}

func (r *GormChatRepository) UpdateChat(chat *model.Chat) error {
	return r.DB.Model(chat).
		Select("title", "subject", "difficulty", "last_activity", "total_tokens").
		Updates(chat).Error
}

func (r *GormChatRepository) AddMessages(chat *model.Chat, messages []model.ChatMessage) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for i := range messages {
			messages[i].ChatID = chat.ID
			if err := tx.Create(&messages[i]).Error; err != nil {
				return err
			}
		}
		return tx.Model(chat).
			Select("last_activity", "total_tokens").
			Updates(chat).Error
	})
}

func (r *GormChatRepository) SoftDeleteChat(userID, chatID uint) error {
	result := r.DB.Model(&model.Chat{}).
		Where("id = ? AND user_id = ? AND is_active = ?", chatID, userID, true).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return util.ErrChatNotFound
	}
	return nil
}
