package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateTalk (question_id, responder_id) 唯一约束冲突
	ErrDuplicateTalk = errors.New("talk already exists for question and responder")
	ErrInvalidRole   = errors.New("invalid message role")
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return err
	}
}
