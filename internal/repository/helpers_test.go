package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/anontalk/internal/model"
	"github.com/d60-Lab/anontalk/pkg/database"
)

func openTestDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := database.Open(sqlite.Open(":memory:"), "silent")
	require.NoError(tb, err)
	sqlDB, err := db.DB()
	require.NoError(tb, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(tb, database.Migrate(db))
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

type fixture struct {
	db        *gorm.DB
	humans    HumanRepository
	questions QuestionRepository
	talks     TalkRepository
	messages  MessageRepository
}

func newFixture(tb testing.TB) *fixture {
	db := openTestDB(tb)
	return &fixture{
		db:        db,
		humans:    NewHumanRepository(db),
		questions: NewQuestionRepository(db),
		talks:     NewTalkRepository(db),
		messages:  NewMessageRepository(db),
	}
}

func (f *fixture) human(tb testing.TB, locale string) *model.Human {
	tb.Helper()
	h := &model.Human{Locale: locale}
	require.NoError(tb, f.humans.Create(context.Background(), h))
	return h
}

func (f *fixture) question(tb testing.TB, asker *model.Human, locale string, at time.Time) *model.Question {
	tb.Helper()
	q := &model.Question{AskerID: asker.ID, Text: "what is courage?", Locale: locale, CreatedAt: at}
	require.NoError(tb, f.questions.Create(context.Background(), q))
	return q
}

func (f *fixture) message(tb testing.TB, talk *model.Talk, role model.Role, at time.Time) *model.Message {
	tb.Helper()
	author := talk.ResponderID
	if role == model.RoleAsker {
		author = talk.Question.AskerID
	}
	m := &model.Message{TalkID: talk.ID, Role: role, AuthorID: author, Text: "hi", CreatedAt: at}
	require.NoError(tb, f.messages.Create(context.Background(), m))
	return m
}
