package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/templui/balancewheel/internal/model"
	"github.com/templui/balancewheel/internal/repository"
)

type UserService struct {
	userRepository repository.UserRepository
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{userRepository: userRepository}
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	return s.userRepository.ByID(ctx, id)
}

// DeleteAccount removes the user. Foreign keys cascade the delete through
// every level of their goal hierarchy.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	err := s.userRepository.Delete(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("account deleted", "user_id", userID)
	return nil
}
