package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEmailTaken = errors.New("email already registered")

type CreateUserRequest struct {
	Email        string     `json:"email" validate:"required,email"`
	FullName     string     `json:"full_name" validate:"required"`
	Password     string     `json:"password" validate:"required,min=6"`
	PhoneNumber  string     `json:"phone_number" validate:"max=20"`
	Address      string     `json:"address"`
	DepartmentID *uuid.UUID `json:"department_id"`
	RoleCode     string     `json:"role" validate:"required,oneof=ADMIN USER"`
}

// UserService is the user directory.
type UserService interface {
	GetAll(ctx context.Context) ([]model.UserResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
	Create(ctx context.Context, actor model.Actor, req CreateUserRequest) (*model.UserResponse, error)
}

type userService struct {
	users repository.UserRepository
	roles repository.RoleRepository
}

func NewUserService(users repository.UserRepository, roles repository.RoleRepository) UserService {
	return &userService{users: users, roles: roles}
}

func (s *userService) GetAll(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.UserResponse, len(users))
	for i := range users {
		out[i] = users[i].ToResponse()
	}
	return out, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "user", id)
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) Create(ctx context.Context, actor model.Actor, req CreateUserRequest) (*model.UserResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmailTaken, req.Email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role, err := s.roles.FindByCode(ctx, req.RoleCode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: role %s", ErrNotFound, req.RoleCode)
	}
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        req.Email,
		FullName:     req.FullName,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		DepartmentID: req.DepartmentID,
		RoleID:       &role.ID,
		IsActive:     true,
	}
	user.CreatedBy = actor.AuditID()
	user.UpdatedBy = actor.AuditID()
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	created, err := s.users.FindByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	resp := created.ToResponse()
	return &resp, nil
}
