package repository

import (
	"acaia_backend/internal/model"
	"acaia_backend/internal/util"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const examCacheTTL = 60 * time.Second

// GormExamRepository persists exams in MySQL and keeps a short-lived
// per-exam read cache in redis when a client is wired in.
type GormExamRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewGormExamRepository(db *gorm.DB, rdb *redis.Client) *GormExamRepository {
	return &GormExamRepository{DB: db, Redis: rdb, ctx: context.Background()}
}

func (r *GormExamRepository) cacheKey(id uint) string {
	return fmt.Sprintf("exam:%d", id)
}

func (r *GormExamRepository) invalidate(id uint) {
	if r.Redis != nil {
		r.Redis.Del(r.ctx, r.cacheKey(id))
	}
}

func (r *GormExamRepository) CreateExam(exam *model.Exam) error {
	return r.DB.Create(exam).Error
}

func (r *GormExamRepository) FindExam(id uint) (*model.Exam, error) {
	if r.Redis != nil {
		if data, err := r.Redis.Get(r.ctx, r.cacheKey(id)).Result(); err == nil {
			var cached model.Exam
			if json.Unmarshal([]byte(data), &cached) == nil {
				return &cached, nil
			}
		}
	}

	var exam model.Exam
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order` ASC, id ASC")
		}).
		Preload("Submissions").
		Where("id = ? AND is_active = ?", id, true).
		First(&exam).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrExamNotFound
	}
	if err != nil {
		return nil, err
	}

	if r.Redis != nil {
		if data, err := json.Marshal(&exam); err == nil {
			r.Redis.Set(r.ctx, r.cacheKey(id), data, examCacheTTL)
		}
	}
	return &exam, nil
}

func (r *GormExamRepository) ListExams(filter ExamFilter, page, limit int) ([]model.Exam, int64, error) {
	query := r.DB.Model(&model.Exam{}).Where("is_active = ?", true)
	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var exams []model.Exam
	err := query.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order` ASC, id ASC")
		}).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&exams).Error
	return exams, total, err
}

func (r *GormExamRepository) UpdateExamStats(exam *model.Exam) error {
	err := r.DB.Model(exam).
		Select("times_taken", "average_score").
		Updates(exam).Error
	if err == nil {
		r.invalidate(exam.ID)
	}
	return err
}

func (r *GormExamRepository) CreateSubmission(sub *model.ExamSubmission) error {
	err := r.DB.Create(sub).Error
	if err != nil {
		// The (exam_id, user_id) unique index rejects the loser of a
		// concurrent double submit.
		if duplicateEntry(err) {
			return util.ErrAlreadySubmitted
		}
		return err
	}
	r.invalidate(sub.ExamID)
	return nil
}
