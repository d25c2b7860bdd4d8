package model

import (
	"fmt"
	"time"
)

// Human 参与者；Locale 由资料层维护，引擎只读
type Human struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Locale    string `gorm:"type:varchar(35);not null"`
	CreatedAt time.Time
}

func (Human) TableName() string { return "humans" }

// URN 对外的稳定标识
func (h Human) URN() string { return fmt.Sprintf("urn:anontalk:%d", h.ID) }
