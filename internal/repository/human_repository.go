package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/anontalk/internal/model"
)

type HumanRepository interface {
	Create(ctx context.Context, h *model.Human) error
	Get(ctx context.Context, id uint64) (*model.Human, error)
}

type humanRepository struct{ db *gorm.DB }

func NewHumanRepository(db *gorm.DB) HumanRepository { return &humanRepository{db: db} }

func (r *humanRepository) Create(ctx context.Context, h *model.Human) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *humanRepository) Get(ctx context.Context, id uint64) (*model.Human, error) {
	var h model.Human
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&h).Error; err != nil {
		return nil, translate(err)
	}
	return &h, nil
}
