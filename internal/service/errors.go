package service

import (
	"errors"
	"fmt"

	"github.com/d60-Lab/anontalk/internal/repository"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrStorage         = errors.New("storage failure")
	ErrDetection       = errors.New("locale detection failure")
)

func storageErr(err error) error { return fmt.Errorf("%w: %w", ErrStorage, err) }

// lookupErr 区分不存在与存储故障
func lookupErr(what string, id uint64, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s #%d", ErrNotFound, what, id)
	}
	return storageErr(err)
}
