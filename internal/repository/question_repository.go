package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/anontalk/internal/model"
)

type QuestionRepository interface {
	Create(ctx context.Context, q *model.Question) error
	// FindAssignable 找一个可分配给 responderID 的问题：同语言、非本人提问、尚未与其建立对话。
	// 最早的问题优先；没有时返回 ErrNotFound
	FindAssignable(ctx context.Context, responderID uint64, locale string) (*model.Question, error)
}

type questionRepository struct{ db *gorm.DB }

func NewQuestionRepository(db *gorm.DB) QuestionRepository { return &questionRepository{db: db} }

func (r *questionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *questionRepository) FindAssignable(ctx context.Context, responderID uint64, locale string) (*model.Question, error) {
	var q model.Question
	err := r.db.WithContext(ctx).
		Model(&model.Question{}).
		Select("questions.*").
		Joins("LEFT JOIN talks ON talks.question_id = questions.id AND talks.responder_id = ?", responderID).
		Where("talks.id IS NULL").
		Where("questions.asker_id <> ?", responderID).
		Where("questions.locale = ?", locale).
		Order("questions.created_at ASC, questions.id ASC").
		Take(&q).Error
	if err != nil {
		return nil, translate(err)
	}
	return &q, nil
}
