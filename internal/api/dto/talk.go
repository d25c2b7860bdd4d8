package dto

import (
	"time"

	"github.com/d60-Lab/anontalk/internal/model"
)

type AskRequest struct {
	Text string `json:"text" binding:"required,notblank,max=2000"`
}

type AskResponse struct {
	ID     uint64 `json:"id"`
	Locale string `json:"locale"`
}

type PostMessageRequest struct {
	Text string `json:"text" binding:"required,notblank,max=4000"`
}

// Talk 对外视图；不暴露对方身份
type Talk struct {
	ID       uint64    `json:"id"`
	Question Question  `json:"question"`
	Role     string    `json:"role"`
	Created  time.Time `json:"created_at"`
}

type Question struct {
	ID     uint64 `json:"id"`
	Text   string `json:"text"`
	Locale string `json:"locale"`
}

type Message struct {
	ID      uint64     `json:"id"`
	Role    string     `json:"role"`
	Mine    bool       `json:"mine"`
	Text    string     `json:"text"`
	Created time.Time  `json:"created_at"`
	SeenAt  *time.Time `json:"seen_at,omitempty"`
}

type TalkList struct {
	List []Talk `json:"list"`
}

func NewTalk(t *model.Talk, viewer uint64) Talk {
	role, _ := t.RoleOf(viewer)
	return Talk{
		ID:       t.ID,
		Question: Question{ID: t.Question.ID, Text: t.Question.Text, Locale: t.Question.Locale},
		Role:     string(role),
		Created:  t.CreatedAt,
	}
}

func NewTalks(talks []*model.Talk, viewer uint64) []Talk {
	out := make([]Talk, 0, len(talks))
	for _, t := range talks {
		out = append(out, NewTalk(t, viewer))
	}
	return out
}

func NewMessages(msgs []*model.Message, viewer uint64) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, NewMessage(m, viewer))
	}
	return out
}

func NewMessage(m *model.Message, viewer uint64) Message {
	return Message{
		ID:      m.ID,
		Role:    string(m.Role),
		Mine:    m.AuthorID == viewer,
		Text:    m.Text,
		Created: m.CreatedAt,
		SeenAt:  m.SeenAt,
	}
}
