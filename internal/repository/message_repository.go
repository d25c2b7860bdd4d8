package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/anontalk/internal/model"
)

type MessageRepository interface {
	Create(ctx context.Context, m *model.Message) error
	ListByTalk(ctx context.Context, talkID uint64, offset, limit int) ([]*model.Message, error)
	// MarkSeen 将 ids 中发给 recipient 的未读消息（即对方角色发出的）标记为已读，返回受影响行数。
	// 只处理调用方实际展示过的消息，ids 为空时不做任何事
	MarkSeen(ctx context.Context, talkID uint64, recipient model.Role, ids []uint64, at time.Time) (int64, error)
	// LatestUnreadTalkID 发给 humanID 且问题语言为 locale 的最新未读消息所属对话；没有时返回 ErrNotFound
	LatestUnreadTalkID(ctx context.Context, humanID uint64, locale string) (uint64, error)
}

type messageRepository struct{ db *gorm.DB }

func NewMessageRepository(db *gorm.DB) MessageRepository { return &messageRepository{db: db} }

func (r *messageRepository) Create(ctx context.Context, m *model.Message) error {
	if !m.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, m.Role)
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *messageRepository) ListByTalk(ctx context.Context, talkID uint64, offset, limit int) ([]*model.Message, error) {
	var res []*model.Message
	err := r.db.WithContext(ctx).
		Where("talk_id = ?", talkID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *messageRepository) MarkSeen(ctx context.Context, talkID uint64, recipient model.Role, ids []uint64, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("talk_id = ? AND role = ? AND seen_at IS NULL", talkID, recipient.Counterpart()).
		Where("id IN ?", ids).
		Update("seen_at", at)
	return res.RowsAffected, res.Error
}

func (r *messageRepository) LatestUnreadTalkID(ctx context.Context, humanID uint64, locale string) (uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Table("messages").
		Joins("JOIN talks ON talks.id = messages.talk_id").
		Joins("JOIN questions ON questions.id = talks.question_id").
		Where("messages.seen_at IS NULL").
		Where("questions.locale = ?", locale).
		Where("(messages.role = ? AND talks.responder_id = ?) OR (messages.role = ? AND questions.asker_id = ?)",
			model.RoleAsker, humanID, model.RoleResponder, humanID).
		Order("messages.created_at DESC, messages.id DESC").
		Limit(1).
		Pluck("messages.talk_id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, ErrNotFound
	}
	return ids[0], nil
}
