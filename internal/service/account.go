package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Payphone-Digital/marketplace/internal/dto"
	apperrors "github.com/Payphone-Digital/marketplace/internal/errors"
	"github.com/Payphone-Digital/marketplace/internal/model"
	ctxutil "github.com/Payphone-Digital/marketplace/pkg/context"
	"github.com/Payphone-Digital/marketplace/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AccountRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	Create(ctx context.Context, account *model.Account) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

type AccountService struct {
	repo       AccountRepository
	jwtService *JWTService
	hashCost   int
}

func NewAccountService(repo AccountRepository, jwtService *JWTService) *AccountService {
	return &AccountService{
		repo:       repo,
		jwtService: jwtService,
		hashCost:   bcrypt.DefaultCost,
	}
}

// Signup creates an account and returns a token for it
func (s *AccountService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Signup")

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if existing != nil {
		logger.WarnWithContext(ctx, "Signup rejected: email already used").
			String("email", email).
			Log()
		return nil, apperrors.ErrEmailExists
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to hash password").
			String("email", email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	account := &model.Account{
		Email:        email,
		Username:     strings.TrimSpace(req.Username),
		Newsletter:   req.Newsletter,
		Password:     hashedPassword,
		TokenVersion: 1,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Account created").
		String("account_id", account.ID.String()).
		Log()

	return s.authResponse(account)
}

// Login verifies credentials. Unknown email and wrong password look the same.
func (s *AccountService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Login")

	email := strings.ToLower(strings.TrimSpace(req.Email))

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if account == nil || !s.checkPassword(account.Password, req.Password) {
		logger.LogAuth("", "login", false,
			zap.String("email", email),
			zap.String("request_id", ctxutil.GetRequestID(ctx)),
		)
		return nil, apperrors.ErrInvalidCredentials
	}

	// A failed last-login write does not fail the login.
	_ = s.repo.UpdateLastLogin(ctx, account.ID)

	logger.LogAuth(account.ID.String(), "login", true,
		zap.String("request_id", ctxutil.GetRequestID(ctx)),
	)

	return s.authResponse(account)
}

// Authenticate resolves a bearer token to its account.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*model.Account, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Authenticate")

	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		logger.DebugWithContext(ctx, "Token rejected").
			Err(err).
			Log()
		return nil, apperrors.ErrInvalidToken
	}

	account, err := s.repo.GetByID(ctx, claims.AccountID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if account == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if account.TokenVersion != claims.TokenVersion {
		logger.InfoWithContext(ctx, "Token revoked").
			String("account_id", account.ID.String()).
			Log()
		return nil, apperrors.ErrInvalidToken
	}
	return account, nil
}

func (s *AccountService) authResponse(account *model.Account) (*dto.AuthResponse, error) {
	token, err := s.jwtService.GenerateToken(account)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return &dto.AuthResponse{
		ID:        account.ID,
		Token:     token,
		ExpiresIn: s.jwtService.ExpiresIn(),
		Account: dto.PublicAccount{
			Username: account.Username,
			Avatar:   account.Avatar,
		},
	}, nil
}

// hashPassword hashes password using bcrypt
func (s *AccountService) hashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// checkPassword verifies password against hash
func (s *AccountService) checkPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
