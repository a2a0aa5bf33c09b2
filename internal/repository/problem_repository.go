package repository

import (
	"acaia_backend/internal/model"
	"acaia_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type GormProblemRepository struct {
	DB *gorm.DB
}

func NewGormProblemRepository(db *gorm.DB) *GormProblemRepository {
	return &GormProblemRepository{DB: db}
}

func (r *GormProblemRepository) CreateProblem(problem *model.Problem) error {
	return r.DB.Create(problem).Error
}

func (r *GormProblemRepository) FindProblem(id uint) (*model.Problem, error) {
	var problem model.Problem
	err := r.DB.Where("id = ? AND is_active = ?", id, true).First(&problem).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrProblemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &problem, nil
}

func (r *GormProblemRepository) ListProblems(filter ProblemFilter, page, limit int) ([]model.Problem, int64, error) {
	query := r.DB.Model(&model.Problem{}).Where("is_active = ?", true)
	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var problems []model.Problem
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&problems).Error
	return problems, total, err
}

func (r *GormProblemRepository) UpdateProblem(problem *model.Problem) error {
	return r.DB.Save(problem).Error
}
