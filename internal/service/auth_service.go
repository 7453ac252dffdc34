package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"notehub-be/internal/config"
	"notehub-be/internal/dto"
	"notehub-be/internal/entity"
	"notehub-be/internal/pkg/apperror"
	"notehub-be/internal/pkg/mailer"
	"notehub-be/internal/repository/specification"
	"notehub-be/internal/repository/unitofwork"
	"notehub-be/pkg/events"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.SessionResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResponse, error)
	Me(ctx context.Context, userId uuid.UUID) (*dto.UserDTO, error)
}

type authService struct {
	uowFactory       unitofwork.RepositoryFactory
	emailService     mailer.IEmailService
	publisherService IPublisherService
	jwtCfg           config.JWTConfig
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	publisherService IPublisherService,
	jwtCfg config.JWTConfig,
) IAuthService {
	return &authService{
		uowFactory:       uowFactory,
		emailService:     emailService,
		publisherService: publisherService,
		jwtCfg:           jwtCfg,
	}
}

// signSession issues a stateless HS256 bearer token bound to the user.
// Validity is signature plus expiry only; nothing is stored server-side.
func (s *authService) signSession(userId uuid.UUID) (string, error) {
	expiry := time.Duration(s.jwtCfg.ExpireDays) * 24 * time.Hour

	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"exp":     time.Now().Add(expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.Secret))
}

func (s *authService) publishActivity(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisherService == nil {
		return
	}
	msg := dto.ActivityMessage{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	// Activity is auxiliary; failures are logged, never fail the request
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperror.Internal("failed to look up user", err)
	}
	if existing != nil {
		return nil, apperror.Conflict("User with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("failed to hash password", err)
	}

	user := &entity.User{
		Id:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	// Use a transaction for the insert so the unique-email race loses cleanly
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal("failed to begin transaction", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("User with this email already exists")
		}
		return nil, apperror.Internal("failed to create user", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal("failed to commit transaction", err)
	}

	signedToken, err := s.signSession(user.Id)
	if err != nil {
		return nil, apperror.Internal("failed to sign session token", err)
	}

	if s.emailService != nil {
		go func() {
			if emailErr := s.emailService.SendWelcome(user.Email, user.Name); emailErr != nil {
				fmt.Printf("Error sending welcome email: %v\n", emailErr)
			}
		}()
	}

	s.publishActivity(ctx, events.TypeUserRegistered, map[string]interface{}{
		"user_id": user.Id,
		"email":   user.Email,
	})

	return &dto.SessionResponse{
		Token: signedToken,
		User: dto.UserDTO{
			Id:        user.Id,
			Name:      user.Name,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperror.Internal("failed to look up user", err)
	}
	if user == nil {
		// The original API distinguishes unknown email from a wrong password.
		// That leaks account existence; kept as an explicit policy decision.
		return nil, apperror.Auth("User not found, please register first")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Auth("Incorrect password")
	}

	signedToken, err := s.signSession(user.Id)
	if err != nil {
		return nil, apperror.Internal("failed to sign session token", err)
	}

	s.publishActivity(ctx, events.TypeUserLogin, map[string]interface{}{
		"user_id": user.Id,
		"time":    time.Now().Format(time.RFC822),
	})

	return &dto.SessionResponse{
		Token: signedToken,
		User: dto.UserDTO{
			Id:        user.Id,
			Name:      user.Name,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
	}, nil
}

func (s *authService) Me(ctx context.Context, userId uuid.UUID) (*dto.UserDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperror.Internal("failed to look up user", err)
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}

	return &dto.UserDTO{
		Id:        user.Id,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}
