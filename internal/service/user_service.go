package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/training-hours-api/internal/dto"
	"github.com/noah-isme/training-hours-api/internal/models"
	"github.com/noah-isme/training-hours-api/internal/repository"
	appErrors "github.com/noah-isme/training-hours-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context) ([]models.UserAccount, error)
	FindByUsername(ctx context.Context, username string) (*models.UserAccount, error)
	Create(ctx context.Context, user *models.UserAccount) error
	Update(ctx context.Context, user models.UserAccount) error
}

// UserServiceConfig restricts department choices and password storage.
type UserServiceConfig struct {
	Departments   []string
	HashPasswords bool
}

// UserService handles user management workflows.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
	cfg       UserServiceConfig
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger, cfg UserServiceConfig) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, validator: validate, logger: logger, cfg: cfg}
}

// List returns all accounts without passwords.
func (s *UserService) List(ctx context.Context) ([]dto.UserView, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	out := make([]dto.UserView, len(users))
	for i, u := range users {
		out[i] = dto.NewUserView(u)
	}
	return out, nil
}

// Create registers a new account. Roles default to Common.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*dto.UserView, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Department = strings.TrimSpace(req.Department)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}
	if err := s.checkDepartment(req.Department); err != nil {
		return nil, err
	}
	roles, err := parseRoleNames(req.Roles)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "username already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check username")
	}

	password, err := encodePassword(req.Password, s.cfg.HashPasswords)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	user := &models.UserAccount{Username: req.Username, Password: password, Roles: roles, Department: req.Department}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	s.logger.Info("user created", zap.String("username", user.Username), zap.Strings("roles", roles.Strings()))
	view := dto.NewUserView(*user)
	return &view, nil
}

// Update edits password, roles and department of username.
func (s *UserService) Update(ctx context.Context, username string, req models.UpdateUserRequest) (*dto.UserView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	if req.Department != nil {
		department := strings.TrimSpace(*req.Department)
		if err := s.checkDepartment(department); err != nil {
			return nil, err
		}
		user.Department = department
	}
	if req.Roles != nil {
		roles, err := parseRoleNames(req.Roles)
		if err != nil {
			return nil, err
		}
		user.Roles = roles
	}
	if req.Password != nil {
		password, err := encodePassword(*req.Password, s.cfg.HashPasswords)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		user.Password = password
	}

	if err := s.repo.Update(ctx, *user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	s.logger.Info("user updated", zap.String("username", user.Username), zap.Bool("password_changed", req.Password != nil))
	view := dto.NewUserView(*user)
	return &view, nil
}

// EnsureBootstrapAdmin creates an Admin account when the users table is
// empty. It reports whether an account was created.
func (s *UserService) EnsureBootstrapAdmin(ctx context.Context, username, password, department string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	if len(users) > 0 {
		return false, nil
	}
	encoded, err := encodePassword(password, s.cfg.HashPasswords)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	admin := &models.UserAccount{Username: username, Password: encoded, Roles: models.RoleSet{models.RoleAdmin}, Department: department}
	if err := s.repo.Create(ctx, admin); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create bootstrap admin")
	}
	s.logger.Info("bootstrap admin created", zap.String("username", username))
	return true, nil
}

func (s *UserService) checkDepartment(department string) error {
	if department == "" {
		return appErrors.Clone(appErrors.ErrValidation, "department is required")
	}
	if len(s.cfg.Departments) == 0 {
		return nil
	}
	for _, d := range s.cfg.Departments {
		if d == department {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrValidation, "unknown department")
}

// parseRoleNames resolves submitted role names. An empty list means Common.
func parseRoleNames(names []string) (models.RoleSet, error) {
	roles := models.RoleSet{}
	for _, name := range names {
		role, ok := repository.RoleFromString(name)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role "+name)
		}
		if !roles.Has(role) {
			roles = append(roles, role)
		}
	}
	if len(roles) == 0 {
		roles = models.RoleSet{models.RoleCommon}
	}
	return roles, nil
}
