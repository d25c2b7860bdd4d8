package model

import "time"

// Question 匿名提问；创建后不可变
type Question struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	AskerID   uint64    `gorm:"not null;index:idx_question_asker"`
	Text      string    `gorm:"type:text;not null"`
	Locale    string    `gorm:"type:varchar(35);not null;index:idx_question_locale_created,priority:1"`
	CreatedAt time.Time `gorm:"index:idx_question_locale_created,priority:2"`
}

func (Question) TableName() string { return "questions" }
