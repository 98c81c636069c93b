package service

import (
	"errors"

	"github.com/mazenibra89-oss/Omni-POS/internal/apperr"
	"github.com/mazenibra89-oss/Omni-POS/internal/model"
	"github.com/mazenibra89-oss/Omni-POS/internal/repository"
	"github.com/mazenibra89-oss/Omni-POS/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService interface {
	CreateUser(req *CreateUserRequest, actor Actor) (*model.User, error)
	UpdateUser(userID uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.User, error)
	DeleteUser(userID uuid.UUID, actor Actor) error
	GetAllUsers() ([]model.UserResponse, error)
	GetUserByID(id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=6"`
	FullName string     `json:"full_name" validate:"required"`
	Role     model.Role `json:"role" validate:"required"`
}

type UpdateUserRequest struct {
	Email    string     `json:"email" validate:"required,email"`
	Password *string    `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	FullName string     `json:"full_name" validate:"required"`
	Role     model.Role `json:"role" validate:"required"`
	IsActive *bool      `json:"is_active"`
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(req *CreateUserRequest, actor Actor) (*model.User, error) {
	if !actor.Role.Can().CanManageUsers {
		return nil, apperr.Forbidden("role %s cannot manage users", actor.Role)
	}
	if err := validator.Check(req); err != nil {
		return nil, apperr.Validation("validation failed: %v", err)
	}
	if !req.Role.Valid() {
		return nil, apperr.Validation("unknown role %q", req.Role)
	}

	existing, _ := s.userRepo.FindByEmail(req.Email)
	if existing != nil {
		return nil, apperr.Conflict("email %s already exists", req.Email)
	}

	user := &model.User{
		Email:    req.Email,
		FullName: req.FullName,
		RoleCode: req.Role,
		IsActive: true,
	}
	user.CreatedBy = actor.ID
	user.UpdatedBy = actor.ID

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) UpdateUser(userID uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.User, error) {
	if !actor.Role.Can().CanManageUsers {
		return nil, apperr.Forbidden("role %s cannot manage users", actor.Role)
	}
	if err := validator.Check(req); err != nil {
		return nil, apperr.Validation("validation failed: %v", err)
	}
	if !req.Role.Valid() {
		return nil, apperr.Validation("unknown role %q", req.Role)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperr.NotFound("user", userID)
	}

	if req.Email != user.Email {
		existing, _ := s.userRepo.FindByEmail(req.Email)
		if existing != nil {
			return nil, apperr.Conflict("email %s already exists", req.Email)
		}
	}

	user.Email = req.Email
	user.FullName = req.FullName
	user.RoleCode = req.Role
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}
	user.UpdatedBy = actor.ID

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) DeleteUser(userID uuid.UUID, actor Actor) error {
	if !actor.Role.Can().CanManageUsers {
		return apperr.Forbidden("role %s cannot manage users", actor.Role)
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user", userID)
		}
		return err
	}
	return s.userRepo.Delete(userID)
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("user", id)
	}
	resp := user.ToResponse()
	return &resp, nil
}
