package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/d60-Lab/anontalk/internal/model"
)

// MessageService 对话内的发言：追加与列出
type MessageService interface {
	Post(ctx context.Context, humanID, talkID uint64, text string) (*model.Message, error)
	// List 列出对话消息；本页中发给 humanID 的未读消息随后被标记为已读，其余保持未读
	List(ctx context.Context, humanID, talkID uint64, page, pageSize int) ([]*model.Message, error)
}

type messageService struct {
	talks    TalkStore
	messages MessageStore
	marker   *SeenMarker
}

// NewMessageService marker 为 nil 时同步标记已读
func NewMessageService(talks TalkStore, messages MessageStore, marker *SeenMarker) MessageService {
	return &messageService{talks: talks, messages: messages, marker: marker}
}

func (s *messageService) Post(ctx context.Context, humanID, talkID uint64, text string) (*model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text can't be empty", ErrInvalidArgument)
	}
	_, role, err := participantTalk(ctx, s.talks, humanID, talkID)
	if err != nil {
		return nil, err
	}
	m := &model.Message{TalkID: talkID, Role: role, AuthorID: humanID, Text: text}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, storageErr(err)
	}
	return m, nil
}

func (s *messageService) List(ctx context.Context, humanID, talkID uint64, page, pageSize int) ([]*model.Message, error) {
	_, role, err := participantTalk(ctx, s.talks, humanID, talkID)
	if err != nil {
		return nil, err
	}
	offset, limit := paginate(page, pageSize, 50)
	msgs, err := s.messages.ListByTalk(ctx, talkID, offset, limit)
	if err != nil {
		return nil, storageErr(err)
	}

	shown := unreadFor(msgs, role)
	if len(shown) == 0 {
		return msgs, nil
	}
	if s.marker != nil {
		s.marker.Enqueue(talkID, role, shown)
		return msgs, nil
	}
	if _, err := s.messages.MarkSeen(ctx, talkID, role, shown, nowUTC()); err != nil {
		return nil, storageErr(err)
	}
	return msgs, nil
}

// unreadFor 本页中发给 recipient 的未读消息 id
func unreadFor(msgs []*model.Message, recipient model.Role) []uint64 {
	var ids []uint64
	for _, m := range msgs {
		if m.Unread() && m.Role == recipient.Counterpart() {
			ids = append(ids, m.ID)
		}
	}
	return ids
}
