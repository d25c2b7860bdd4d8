package model

import "time"

// Talk 一个问题与一个回答者之间的对话
type Talk struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	QuestionID  uint64 `gorm:"not null;uniqueIndex:ux_talk_question_responder,priority:1"`
	ResponderID uint64 `gorm:"not null;uniqueIndex:ux_talk_question_responder,priority:2;index:idx_talk_responder"`
	// 复合唯一键，同一问题不会两次分配给同一回答者
	// ux_talk_question_responder = (question_id, responder_id)
	CreatedAt time.Time

	Question Question `gorm:"foreignKey:QuestionID"`
}

func (Talk) TableName() string { return "talks" }

// RoleOf 返回 humanID 在该对话中的角色；非参与者返回 false
func (t Talk) RoleOf(humanID uint64) (Role, bool) {
	switch humanID {
	case t.ResponderID:
		return RoleResponder, true
	case t.Question.AskerID:
		return RoleAsker, true
	}
	return "", false
}
