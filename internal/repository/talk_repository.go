package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/anontalk/internal/model"
)

type TalkRepository interface {
	// Create 插入对话；(question, responder) 已存在时返回 ErrDuplicateTalk
	Create(ctx context.Context, questionID, responderID uint64) (*model.Talk, error)
	Get(ctx context.Context, id uint64) (*model.Talk, error)
	// ListByHuman 该用户作为提问者或回答者参与的对话，新的在前
	ListByHuman(ctx context.Context, humanID uint64, offset, limit int) ([]*model.Talk, error)
	CountByQuestion(ctx context.Context, questionID uint64) (int64, error)
}

type talkRepository struct {
	db *gorm.DB
}

func NewTalkRepository(db *gorm.DB) TalkRepository { return &talkRepository{db: db} }

func (r *talkRepository) Create(ctx context.Context, questionID, responderID uint64) (*model.Talk, error) {
	t := &model.Talk{QuestionID: questionID, ResponderID: responderID}
	// 冲突不吞掉，由调用方决定是否重试
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicateTalk
	}
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, t.ID)
}

func (r *talkRepository) Get(ctx context.Context, id uint64) (*model.Talk, error) {
	var t model.Talk
	if err := r.db.WithContext(ctx).Preload("Question").Where("id = ?", id).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *talkRepository) ListByHuman(ctx context.Context, humanID uint64, offset, limit int) ([]*model.Talk, error) {
	var res []*model.Talk
	err := r.db.WithContext(ctx).
		Preload("Question").
		Joins("JOIN questions q ON q.id = talks.question_id").
		Where("talks.responder_id = ? OR q.asker_id = ?", humanID, humanID).
		Order("talks.created_at DESC, talks.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *talkRepository) CountByQuestion(ctx context.Context, questionID uint64) (int64, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Talk{}).
		Where("question_id = ?", questionID).
		Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}
