package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/d60-Lab/anontalk/internal/model"
	"github.com/d60-Lab/anontalk/internal/repository"
)

// memStore 内存实现的 Human/Question/Talk/Message 存储，带故障注入钩子
type memStore struct {
	mu        sync.Mutex
	humans    map[uint64]*model.Human
	questions []*model.Question
	talks     []*model.Talk
	messages  []*model.Message
	seq       uint64

	failUnread error
	failFind   error
	// createHook 在插入对话前调用；返回非 nil 则直接作为 Create 的结果
	createHook func(questionID, responderID uint64) error
}

func newMemStore() *memStore { return &memStore{humans: map[uint64]*model.Human{}} }

func (s *memStore) next() uint64 {
	s.seq++
	return s.seq
}

func (s *memStore) addHuman(locale string) *model.Human {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &model.Human{ID: s.next(), Locale: locale}
	s.humans[h.ID] = h
	return h
}

func (s *memStore) Get(_ context.Context, id uint64) (*model.Human, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.humans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *h
	return &cp, nil
}

type memQuestions struct{ *memStore }

func (s memQuestions) Create(_ context.Context, q *model.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.ID = s.next()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}
	cp := *q
	s.questions = append(s.questions, &cp)
	return nil
}

func (s memQuestions) FindAssignable(_ context.Context, responderID uint64, locale string) (*model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFind != nil {
		return nil, s.failFind
	}
	candidates := make([]*model.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if q.Locale != locale || q.AskerID == responderID || s.hasTalk(q.ID, responderID) {
			continue
		}
		candidates = append(candidates, q)
	}
	if len(candidates) == 0 {
		return nil, repository.ErrNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].ID < candidates[j].ID
		}
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})
	cp := *candidates[0]
	return &cp, nil
}

func (s *memStore) hasTalk(questionID, responderID uint64) bool {
	for _, t := range s.talks {
		if t.QuestionID == questionID && t.ResponderID == responderID {
			return true
		}
	}
	return false
}

func (s *memStore) question(id uint64) model.Question {
	for _, q := range s.questions {
		if q.ID == id {
			return *q
		}
	}
	return model.Question{}
}

type memTalks struct{ *memStore }

func (s memTalks) Create(_ context.Context, questionID, responderID uint64) (*model.Talk, error) {
	s.mu.Lock()
	hook := s.createHook
	s.mu.Unlock()
	if hook != nil {
		if err := hook(questionID, responderID); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasTalk(questionID, responderID) {
		return nil, repository.ErrDuplicateTalk
	}
	t := &model.Talk{ID: s.next(), QuestionID: questionID, ResponderID: responderID, CreatedAt: time.Now(), Question: s.question(questionID)}
	s.talks = append(s.talks, t)
	cp := *t
	return &cp, nil
}

func (s memTalks) Get(_ context.Context, id uint64) (*model.Talk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.talks {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s memTalks) ListByHuman(_ context.Context, humanID uint64, offset, limit int) ([]*model.Talk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*model.Talk
	for i := len(s.talks) - 1; i >= 0; i-- {
		t := s.talks[i]
		if t.ResponderID == humanID || t.Question.AskerID == humanID {
			cp := *t
			res = append(res, &cp)
		}
	}
	if offset >= len(res) {
		return nil, nil
	}
	res = res[offset:]
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

type memMessages struct{ *memStore }

func (s memMessages) Create(_ context.Context, m *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.next()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	cp := *m
	s.messages = append(s.messages, &cp)
	return nil
}

func (s memMessages) ListByTalk(_ context.Context, talkID uint64, offset, limit int) ([]*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*model.Message
	for _, m := range s.messages {
		if m.TalkID == talkID {
			cp := *m
			res = append(res, &cp)
		}
	}
	if offset >= len(res) {
		return nil, nil
	}
	res = res[offset:]
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (s memMessages) MarkSeen(_ context.Context, talkID uint64, recipient model.Role, ids []uint64, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	listed := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		listed[id] = true
	}
	var n int64
	for _, m := range s.messages {
		if listed[m.ID] && m.TalkID == talkID && m.Role == recipient.Counterpart() && m.SeenAt == nil {
			seen := at
			m.SeenAt = &seen
			n++
		}
	}
	return n, nil
}

func (s memMessages) LatestUnreadTalkID(_ context.Context, humanID uint64, locale string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUnread != nil {
		return 0, s.failUnread
	}
	var best *model.Message
	for _, m := range s.messages {
		if m.SeenAt != nil {
			continue
		}
		var talk *model.Talk
		for _, t := range s.talks {
			if t.ID == m.TalkID {
				talk = t
			}
		}
		if talk == nil || talk.Question.Locale != locale {
			continue
		}
		addressed := (m.Role == model.RoleAsker && talk.ResponderID == humanID) ||
			(m.Role == model.RoleResponder && talk.Question.AskerID == humanID)
		if !addressed {
			continue
		}
		if best == nil || m.CreatedAt.After(best.CreatedAt) || (m.CreatedAt.Equal(best.CreatedAt) && m.ID > best.ID) {
			best = m
		}
	}
	if best == nil {
		return 0, repository.ErrNotFound
	}
	return best.TalkID, nil
}

func (s *memStore) talkCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.talks)
}
