package service

import (
	"context"
	"time"

	"github.com/d60-Lab/anontalk/internal/model"
)

// 服务只依赖以下窄接口；repository 包中的实现满足它们

type HumanStore interface {
	Get(ctx context.Context, id uint64) (*model.Human, error)
}

type QuestionStore interface {
	Create(ctx context.Context, q *model.Question) error
	FindAssignable(ctx context.Context, responderID uint64, locale string) (*model.Question, error)
}

type TalkStore interface {
	Create(ctx context.Context, questionID, responderID uint64) (*model.Talk, error)
	Get(ctx context.Context, id uint64) (*model.Talk, error)
	ListByHuman(ctx context.Context, humanID uint64, offset, limit int) ([]*model.Talk, error)
}

type MessageStore interface {
	Create(ctx context.Context, m *model.Message) error
	ListByTalk(ctx context.Context, talkID uint64, offset, limit int) ([]*model.Message, error)
	MarkSeen(ctx context.Context, talkID uint64, recipient model.Role, ids []uint64, at time.Time) (int64, error)
	LatestUnreadTalkID(ctx context.Context, humanID uint64, locale string) (uint64, error)
}
