// service/user_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/bookclub/audit"
	"github.com/dev-mohitbeniwal/bookclub/auth"
	"github.com/dev-mohitbeniwal/bookclub/dao"
	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
	logger "github.com/dev-mohitbeniwal/bookclub/logging"
	"github.com/dev-mohitbeniwal/bookclub/model"
	"github.com/dev-mohitbeniwal/bookclub/util"
	helper_util "github.com/dev-mohitbeniwal/bookclub/util/helper"
)

// TokenSigner issues session tokens for authenticated users.
type TokenSigner interface {
	Sign(identity model.Identity) (string, error)
}

// IUserService defines the interface for user operations
type IUserService interface {
	Signup(ctx context.Context, req model.SignupRequest) (*model.AuthPayload, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthPayload, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) ([]*model.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*model.User, error)
}

// UserService handles accounts and sessions
type UserService struct {
	userDAO         dao.IUserDAO
	signer          TokenSigner
	validationUtil  *util.ValidationUtil
	cache           util.UserCache
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
	auditService    audit.Service
}

var _ IUserService = &UserService{}

func NewUserService(
	userDAO dao.IUserDAO,
	signer TokenSigner,
	validationUtil *util.ValidationUtil,
	cache util.UserCache,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
	auditService audit.Service,
) *UserService {
	service := &UserService{
		userDAO:         userDAO,
		signer:          signer,
		validationUtil:  validationUtil,
		cache:           cache,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
		auditService:    auditService,
	}

	eventBus.Subscribe(util.TopicUserCreated, service.handleUserCreated)
	// Cached users carry their club ids, so any membership change evicts them.
	eventBus.Subscribe(util.TopicMemberJoined, service.handleMembershipChanged)
	eventBus.Subscribe(util.TopicMemberLeft, service.handleMembershipChanged)
	eventBus.Subscribe(util.TopicClubCreated, service.handleClubChanged)
	eventBus.Subscribe(util.TopicClubDeleted, service.handleClubChanged)

	return service
}

func (s *UserService) handleUserCreated(ctx context.Context, event util.Event) error {
	user := event.Payload.(model.User)
	logger.Info("User created event received", zap.String("userID", user.ID))
	if err := s.notificationSvc.NotifyUserChange(ctx, "created", user); err != nil {
		logger.Warn("Failed to send user creation notification", zap.Error(err), zap.String("userID", user.ID))
	}
	return nil
}

func (s *UserService) handleMembershipChanged(ctx context.Context, event util.Event) error {
	change := event.Payload.(model.MembershipChange)
	return s.cache.DeleteUser(ctx, change.UserID)
}

func (s *UserService) handleClubChanged(ctx context.Context, event util.Event) error {
	club := event.Payload.(model.Club)
	var errs []error
	for _, userID := range club.Users {
		if err := s.cache.DeleteUser(ctx, userID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Signup creates an account and returns a session for it.
func (s *UserService) Signup(ctx context.Context, req model.SignupRequest) (*model.AuthPayload, error) {
	req.Email = normalizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validationUtil.ValidateSignup(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.userDAO.CreateUser(ctx, model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		logger.Error("Error creating user", zap.Error(err), zap.String("username", req.Username))
		return nil, err
	}

	payload, err := s.session(user)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetUser(ctx, *user); err != nil {
		logger.Warn("Failed to cache user", zap.Error(err), zap.String("userID", user.ID))
	}
	s.eventBus.Publish(ctx, util.TopicUserCreated, *user)
	recordAudit(ctx, s.auditService, audit.AuditLog{
		UserID:       user.ID,
		Action:       audit.ActionSignup,
		ResourceType: "user",
		ResourceID:   user.ID,
	})

	logger.Info("User signed up", zap.String("userID", user.ID))
	return payload, nil
}

// Login exchanges credentials for a session. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthPayload, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validationUtil.ValidateLogin(req); err != nil {
		return nil, err
	}

	user, err := s.userDAO.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, bookclub_errors.ErrUserNotFound) {
		return nil, bookclub_errors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		logger.Info("Login rejected", zap.String("userID", user.ID))
		return nil, err
	}

	payload, err := s.session(user)
	if err != nil {
		return nil, err
	}
	recordAudit(ctx, s.auditService, audit.AuditLog{
		UserID:       user.ID,
		Action:       audit.ActionLogin,
		ResourceType: "user",
		ResourceID:   user.ID,
	})
	return payload, nil
}

func (s *UserService) session(user *model.User) (*model.AuthPayload, error) {
	token, err := s.signer.Sign(user.Identity())
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}
	return &model.AuthPayload{Token: token, User: user}, nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	if cached, err := s.cache.GetUser(ctx, userID); err != nil {
		logger.Warn("Failed to read user cache", zap.Error(err), zap.String("userID", userID))
	} else if cached != nil {
		return cached, nil
	}

	user, err := s.userDAO.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetUser(ctx, *user); err != nil {
		logger.Warn("Failed to cache user", zap.Error(err), zap.String("userID", userID))
	}
	return user, nil
}

func (s *UserService) GetUsersByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	return s.userDAO.GetUsersByIDs(ctx, ids)
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]*model.User, error) {
	limit, offset, err := helper_util.Pagination(limit, offset)
	if err != nil {
		return nil, err
	}
	return s.userDAO.ListUsers(ctx, limit, offset)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
