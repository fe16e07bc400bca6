package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/notifications"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/workflow"
)

// Dispatcher delivers the single notification each admin user-management
// action generates.
type Dispatcher interface {
	Dispatch(ctx context.Context, intents []workflow.NotificationIntent)
}

type Service interface {
	Create(ctx context.Context, input CreateInput) (*User, error)
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	List(ctx context.Context, role *workflow.Role) ([]User, error)
	ChangeRole(ctx context.Context, id uuid.UUID, role workflow.Role) (*User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*User, error)

	// AdminIDs and Contact serve the workflow fan-out and the notification
	// channels respectively.
	AdminIDs(ctx context.Context) ([]uuid.UUID, error)
	Contact(ctx context.Context, id uuid.UUID) (notifications.Contact, error)
}

type CreateInput struct {
	Email    string
	Name     string
	Phone    string
	Role     workflow.Role
	Password string
}

type service struct {
	repo     Repository
	notifier Dispatcher
	logger   *zap.Logger
}

func NewService(repo Repository, notifier Dispatcher, logger *zap.Logger) Service {
	return &service{repo: repo, notifier: notifier, logger: logger}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*User, error) {
	if input.Email == "" || input.Name == "" {
		return nil, fmt.Errorf("email and name are required")
	}
	if !input.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q", input.Role)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	existing, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email %s is already registered", input.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        input.Email,
		Name:         input.Name,
		Phone:        input.Phone,
		Role:         input.Role,
		Active:       true,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	return user, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, workflow.NotFound("user %s not found", id)
	}
	return user, nil
}

func (s *service) List(ctx context.Context, role *workflow.Role) ([]User, error) {
	return s.repo.List(ctx, role)
}

func (s *service) ChangeRole(ctx context.Context, id uuid.UUID, role workflow.Role) (*User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.notifier.Dispatch(ctx, []workflow.NotificationIntent{{
		RecipientID: user.ID,
		Kind:        workflow.KindRoleChange,
		Title:       "Role updated",
		Message:     fmt.Sprintf("Your role is now %s.", role),
	}})
	return user, nil
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Active = active
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	title, message := "Account deactivated", "Your account has been deactivated."
	if active {
		title, message = "Account activated", "Your account has been activated."
	}
	s.notifier.Dispatch(ctx, []workflow.NotificationIntent{{
		RecipientID: user.ID,
		Kind:        workflow.KindAccount,
		Title:       title,
		Message:     message,
	}})
	return user, nil
}

func (s *service) AdminIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.repo.IDsByRole(ctx, workflow.RoleAdmin)
}

func (s *service) Contact(ctx context.Context, id uuid.UUID) (notifications.Contact, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return notifications.Contact{}, err
	}
	return notifications.Contact{Email: user.Email, Phone: user.Phone}, nil
}
