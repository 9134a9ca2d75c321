package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/fairgrounds/registration-service/internal/auth"
	"github.com/fairgrounds/registration-service/internal/config"
	"github.com/fairgrounds/registration-service/internal/domain"
	"github.com/fairgrounds/registration-service/internal/events"
	"github.com/fairgrounds/registration-service/internal/repository"
	"github.com/fairgrounds/registration-service/pkg/util"
)

// UserService manages back-office accounts. Authorization for reaching
// these operations is ManageUsers (admin only); the self-protection
// checks on top apply to every role.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewUserService constructs the service.
func NewUserService(cfg config.AuthConfig, users repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{
		users:      users,
		dispatcher: dispatcher,
		bcryptCost: cfg.BcryptCost,
	}
}

// UserCreateInput describes a new account.
type UserCreateInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UserUpdateInput describes a partial account update.
type UserUpdateInput struct {
	Name     *string
	Email    *string
	Role     *domain.Role
	IsActive *bool
	Password *string
}

// UserListFilter describes listing parameters.
type UserListFilter struct {
	Search *string
	Page   int
	Limit  int
}

// Create adds a new account. Accounts start active; self-registration
// is not exposed anywhere, so the caller is always an admin.
func (s *UserService) Create(ctx context.Context, actingPrincipal auth.Principal, input UserCreateInput) (*domain.User, error) {
	fields := map[string]any{}
	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "is required"
	}
	if strings.TrimSpace(input.Email) == "" {
		fields["email"] = "is required"
	}
	if input.Password == "" {
		fields["password"] = "is required"
	}
	if !domain.ValidRole(input.Role) {
		fields["role"] = "must be one of admin, moderator"
	}
	if len(fields) > 0 {
		return nil, util.NewValidationError("user validation failed", fields)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hash,
		Role:         input.Role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventUserCreated,
		EntityID: user.ID,
		Actor:    PrincipalActor(actingPrincipal),
		Payload:  events.UserChangedPayload{Email: user.Email, Role: user.Role},
	})
	return user, nil
}

// Get fetches a single account.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return user, nil
}

// List returns a page of accounts.
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]domain.User, repository.Page, error) {
	page := repository.NormalizePage(filter.Page)
	limit := repository.NormalizeLimit(filter.Limit)

	repoFilter := repository.UserFilter{
		Search: filter.Search,
		Limit:  limit,
		Offset: repository.Offset(page, limit),
	}

	items, err := s.users.List(ctx, repoFilter)
	if err != nil {
		return nil, repository.Page{}, err
	}
	total, err := s.users.Count(ctx, repoFilter)
	if err != nil {
		return nil, repository.Page{}, err
	}
	if items == nil {
		items = []domain.User{}
	}
	return items, repository.NewPage(page, limit, total), nil
}

// Update applies a partial account update. A principal can never flip
// its own account to inactive, admins included.
func (s *UserService) Update(ctx context.Context, actingPrincipal auth.Principal, id string, input UserUpdateInput) (*domain.User, error) {
	if input.IsActive != nil {
		if err := auth.CheckSelfDeactivation(actingPrincipal, id, *input.IsActive); err != nil {
			return nil, err
		}
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapUserErr(err)
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil && strings.TrimSpace(*input.Email) != "" {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.Role != nil {
		if !domain.ValidRole(*input.Role) {
			return nil, util.NewValidationError("user validation failed", map[string]any{"role": "must be one of admin, moderator"})
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, mapUserErr(err)
	}
	return user, nil
}

// Delete permanently removes an account. A principal can never delete
// its own account.
func (s *UserService) Delete(ctx context.Context, actingPrincipal auth.Principal, id string) error {
	if err := auth.CheckSelfDeletion(actingPrincipal, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return mapUserErr(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventUserDeleted,
		EntityID: id,
		Actor:    PrincipalActor(actingPrincipal),
	})
	return nil
}

// EnsureAdmin seeds the bootstrap admin account when configured and not
// yet present. It runs once at startup.
func (s *UserService) EnsureAdmin(ctx context.Context, cfg config.BootstrapConfig, logger *zap.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	if _, err := s.users.GetByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(cfg.AdminPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	admin := &domain.User{
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}
	logger.Info("bootstrap admin created", zap.String("email", admin.Email))
	return nil
}

func mapUserErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return util.NewNotFound("user", nil)
	}
	return err
}

// PrincipalActor converts a principal into the event actor shape. The
// anonymous principal maps to an actor with no user identity.
func PrincipalActor(p auth.Principal) events.Actor {
	if p.IsAnonymous() {
		return events.Actor{}
	}
	id := p.ID
	role := p.Role
	return events.Actor{UserID: &id, Role: &role}
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
