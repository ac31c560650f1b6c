package user

import (
	"context"
	"fmt"
	"time"

	"github.com/carvisapp/carvis-backend/internal/entity"
	"github.com/carvisapp/carvis-backend/internal/repo"
	"github.com/carvisapp/carvis-backend/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

const systemActor = "system"

type UserUseCase struct {
	users   repo.UserRepo
	window  *ActiveWindow
	signups prometheus.Counter

	logger logger.Interface
}

func New(users repo.UserRepo, window *ActiveWindow, signups prometheus.Counter, l logger.Interface) *UserUseCase {
	return &UserUseCase{
		users:   users,
		window:  window,
		signups: signups,
		logger:  l,
	}
}

// RegisterSignup persists the signup for admin review. The repo upserts,
// so event redelivery lands on the same row.
func (uc *UserUseCase) RegisterSignup(ctx context.Context, userID, email, name string) error {
	user := &entity.NewUser{
		ID:    userID,
		Email: email,
		Name:  name,
	}
	user.Touch(systemActor, time.Now())

	err := uc.users.Save(ctx, user)
	if err != nil {
		return fmt.Errorf("UserUseCase - RegisterSignup - uc.users.Save: %w", err)
	}

	uc.signups.Inc()

	return nil
}

func (uc *UserUseCase) RecordActivity(userID string) {
	if userID == "" {
		return
	}

	uc.window.Insert(userID)
}

func (uc *UserUseCase) ActiveUsers() float64 {
	return float64(uc.window.Count())
}
