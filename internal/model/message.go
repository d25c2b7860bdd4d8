package model

import "time"

// Role 发言方
type Role string

const (
	RoleAsker     Role = "asker"
	RoleResponder Role = "responder"
)

// Counterpart 返回接收方角色
func (r Role) Counterpart() Role {
	if r == RoleAsker {
		return RoleResponder
	}
	return RoleAsker
}

func (r Role) Valid() bool { return r == RoleAsker || r == RoleResponder }

// Message 对话中的一轮发言；SeenAt 为空表示接收方未读
type Message struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement"`
	TalkID    uint64     `gorm:"not null;index:idx_message_talk"`
	Role      Role       `gorm:"type:varchar(16);not null"`
	AuthorID  uint64     `gorm:"not null"`
	Text      string     `gorm:"type:text;not null"`
	CreatedAt time.Time  `gorm:"index:idx_message_unread,priority:2"`
	SeenAt    *time.Time `gorm:"index:idx_message_unread,priority:1"`
}

func (Message) TableName() string { return "messages" }

// Unread 是否仍未被接收方查看
func (m Message) Unread() bool { return m.SeenAt == nil }
