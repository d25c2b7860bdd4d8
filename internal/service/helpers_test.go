package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/anontalk/internal/locale"
	"github.com/d60-Lab/anontalk/internal/model"
	"github.com/d60-Lab/anontalk/internal/repository"
	"github.com/d60-Lab/anontalk/pkg/database"
)

// mapDetector 按文本查表；未登记的文本视为英语
type mapDetector map[string]string

func (d mapDetector) Detect(_ context.Context, text string) (string, error) {
	if tag, ok := d[text]; ok {
		return tag, nil
	}
	return "en", nil
}

type env struct {
	db        *gorm.DB
	humans    repository.HumanRepository
	questions repository.QuestionRepository
	talks     repository.TalkRepository
	messages  repository.MessageRepository
	svc       TalkService
	msgs      MessageService
}

func newEnv(t *testing.T, detector locale.Detector) *env {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn), "silent")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })

	if detector == nil {
		detector = locale.StaticDetector("en")
	}
	e := &env{
		db:        db,
		humans:    repository.NewHumanRepository(db),
		questions: repository.NewQuestionRepository(db),
		talks:     repository.NewTalkRepository(db),
		messages:  repository.NewMessageRepository(db),
	}
	e.svc = NewTalkService(e.humans, e.questions, e.talks, e.messages, detector)
	e.msgs = NewMessageService(e.talks, e.messages, nil)
	return e
}

func (e *env) human(t *testing.T, loc string) *model.Human {
	t.Helper()
	h := &model.Human{Locale: loc}
	require.NoError(t, e.humans.Create(context.Background(), h))
	return h
}

func (e *env) ask(t *testing.T, h *model.Human, text string) *model.Question {
	t.Helper()
	q, err := e.svc.Ask(context.Background(), h.ID, text)
	require.NoError(t, err)
	return q
}

func (e *env) setLocale(t *testing.T, h *model.Human, loc string) {
	t.Helper()
	require.NoError(t, e.db.Model(&model.Human{}).Where("id = ?", h.ID).Update("locale", loc).Error)
}

func (e *env) talkCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.Talk{}).Count(&n).Error)
	return n
}

// post 直接写入带指定时间的消息
func (e *env) post(t *testing.T, talk *model.Talk, role model.Role, at time.Time) {
	t.Helper()
	author := talk.ResponderID
	if role == model.RoleAsker {
		author = talk.Question.AskerID
	}
	m := &model.Message{TalkID: talk.ID, Role: role, AuthorID: author, Text: "...", CreatedAt: at}
	require.NoError(t, e.messages.Create(context.Background(), m))
}

func ids(talks []*model.Talk) []uint64 {
	out := make([]uint64, len(talks))
	for i, t := range talks {
		out[i] = t.ID
	}
	return out
}
