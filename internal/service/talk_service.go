package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/d60-Lab/anontalk/internal/locale"
	"github.com/d60-Lab/anontalk/internal/model"
	"github.com/d60-Lab/anontalk/internal/repository"
	"github.com/d60-Lab/anontalk/pkg/logger"
)

// TalkService 对话分配引擎
type TalkService interface {
	// Ask 以 humanID 身份提问；不会创建对话
	Ask(ctx context.Context, humanID uint64, text string) (*model.Question, error)
	// Next 返回该用户接下来应继续的对话：优先最新未读，否则分配一个新问题。结果至多一个
	Next(ctx context.Context, humanID uint64) ([]*model.Talk, error)
	History(ctx context.Context, humanID uint64, page, pageSize int) ([]*model.Talk, error)
	// Talk 仅对参与者可见
	Talk(ctx context.Context, humanID, talkID uint64) (*model.Talk, model.Role, error)
}

type talkService struct {
	humans    HumanStore
	questions QuestionStore
	talks     TalkStore
	messages  MessageStore
	detector  locale.Detector
}

func NewTalkService(humans HumanStore, questions QuestionStore, talks TalkStore, messages MessageStore, detector locale.Detector) TalkService {
	return &talkService{humans: humans, questions: questions, talks: talks, messages: messages, detector: detector}
}

func (s *talkService) Ask(ctx context.Context, humanID uint64, text string) (*model.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text can't be empty", ErrInvalidArgument)
	}
	h, err := s.human(ctx, humanID)
	if err != nil {
		return nil, err
	}

	tag, err := s.detector.Detect(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDetection, err)
	}
	tag, err = locale.Normalize(tag)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDetection, err)
	}

	q := &model.Question{AskerID: humanID, Text: text, Locale: tag}
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, storageErr(err)
	}
	logger.Info("question asked",
		zap.Uint64("question", q.ID), zap.String("asker", h.URN()), zap.String("locale", tag))
	return q, nil
}

func (s *talkService) Next(ctx context.Context, humanID uint64) ([]*model.Talk, error) {
	h, err := s.human(ctx, humanID)
	if err != nil {
		return nil, err
	}

	talks, err := s.unread(ctx, h)
	if err != nil || len(talks) > 0 {
		return talks, err
	}
	return s.start(ctx, h)
}

// unread 发给 h 的最新未读消息所在对话
func (s *talkService) unread(ctx context.Context, h *model.Human) ([]*model.Talk, error) {
	talkID, err := s.messages.LatestUnreadTalkID(ctx, h.ID, h.Locale)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err)
	}
	t, err := s.talks.Get(ctx, talkID)
	if err != nil {
		return nil, storageErr(err)
	}
	if !locale.Match(h.Locale, t.Question.Locale) {
		return nil, nil
	}
	return []*model.Talk{t}, nil
}

// start 为 h 分配一个新问题。唯一约束冲突说明并发请求已抢先分配，重新查找一次
func (s *talkService) start(ctx context.Context, h *model.Human) ([]*model.Talk, error) {
	for attempt := 0; attempt < 2; attempt++ {
		q, err := s.questions.FindAssignable(ctx, h.ID, h.Locale)
		if errors.Is(err, repository.ErrNotFound) {
			return []*model.Talk{}, nil
		}
		if err != nil {
			return nil, storageErr(err)
		}
		if q.AskerID == h.ID || !locale.Match(h.Locale, q.Locale) {
			return []*model.Talk{}, nil
		}

		t, err := s.talks.Create(ctx, q.ID, h.ID)
		if errors.Is(err, repository.ErrDuplicateTalk) {
			logger.Warn("talk assignment conflict",
				zap.Uint64("question", q.ID), zap.String("responder", h.URN()), zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, storageErr(err)
		}
		logger.Info("talk started",
			zap.Uint64("talk", t.ID), zap.String("responder", h.URN()), zap.Uint64("question", q.ID))
		return []*model.Talk{t}, nil
	}
	return []*model.Talk{}, nil
}

func (s *talkService) History(ctx context.Context, humanID uint64, page, pageSize int) ([]*model.Talk, error) {
	if _, err := s.human(ctx, humanID); err != nil {
		return nil, err
	}
	offset, limit := paginate(page, pageSize, 20)
	talks, err := s.talks.ListByHuman(ctx, humanID, offset, limit)
	if err != nil {
		return nil, storageErr(err)
	}
	return talks, nil
}

func (s *talkService) Talk(ctx context.Context, humanID, talkID uint64) (*model.Talk, model.Role, error) {
	return participantTalk(ctx, s.talks, humanID, talkID)
}

func (s *talkService) human(ctx context.Context, id uint64) (*model.Human, error) {
	h, err := s.humans.Get(ctx, id)
	if err != nil {
		return nil, lookupErr("human", id, err)
	}
	return h, nil
}

// participantTalk 非参与者与不存在同样返回 ErrNotFound
func participantTalk(ctx context.Context, talks TalkStore, humanID, talkID uint64) (*model.Talk, model.Role, error) {
	t, err := talks.Get(ctx, talkID)
	if err != nil {
		return nil, "", lookupErr("talk", talkID, err)
	}
	role, ok := t.RoleOf(humanID)
	if !ok {
		return nil, "", fmt.Errorf("%w: talk #%d", ErrNotFound, talkID)
	}
	return t, role, nil
}

const maxPageSize = 100

func paginate(page, pageSize, defaultSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultSize
	}
	return (page - 1) * pageSize, pageSize
}
