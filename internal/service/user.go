package service

import (
	"context"
	"fmt"

	"partsmarket/internal/model"
	"partsmarket/internal/repository"
)

type UserService interface {
	List(ctx context.Context) ([]*model.User, error)
	PromoteVIP(ctx context.Context, userID, specialClientCode string) (*model.User, error)
}

type userServiceImpl struct {
	userRepo repository.UserRepository
	vipCode  string
}

func NewUserService(userRepo repository.UserRepository, vipCode string) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		vipCode:  vipCode,
	}
}

func (s *userServiceImpl) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]*model.User, 0, len(users))
	for _, u := range users {
		out = append(out, toUser(u))
	}
	return out, nil
}

func (s *userServiceImpl) PromoteVIP(ctx context.Context, userID, specialClientCode string) (*model.User, error) {
	if specialClientCode != s.vipCode {
		return nil, ErrBadVIPCode
	}

	user, err := s.userRepo.UpdateUserType(ctx, userID, string(model.TierVIPCustomer))
	if err != nil {
		return nil, err
	}
	return toUser(user), nil
}
