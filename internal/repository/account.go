package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Payphone-Digital/marketplace/internal/model"
	ctxutil "github.com/Payphone-Digital/marketplace/pkg/context"
	"github.com/Payphone-Digital/marketplace/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetByID returns (nil, nil) when the account does not exist
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetAccountByID")

	var account model.Account
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.ErrorWithContext(ctx, "Failed to get account by ID").
			String("account_id", id.String()).
			Err(result.Error).
			Log()
		return nil, result.Error
	}
	return &account, nil
}

// GetByEmail returns (nil, nil) when no account uses the email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetAccountByEmail")

	start := time.Now()
	var account model.Account
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&account)
	duration := time.Since(start)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.ErrorWithContext(ctx, "Failed to get account by email").
			String("email", email).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "Account retrieved successfully by email").
		String("account_id", account.ID.String()).
		Duration(duration).
		Log()
	return &account, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "CreateAccount")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(account)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create account").
			String("email", account.Email).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "Account created successfully").
		String("account_id", account.ID.String()).
		Duration(duration).
		Log()
	return nil
}

func (r *AccountRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "UpdateLastLogin")

	result := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ?", id).
		Update("last_login", time.Now().UTC())
	if result.Error != nil {
		logger.WarnWithContext(ctx, "Failed to update last login").
			String("account_id", id.String()).
			Err(result.Error).
			Log()
	}
	return result.Error
}
