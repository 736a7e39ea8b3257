package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Payphone-Digital/marketplace/internal/dto"
	apperrors "github.com/Payphone-Digital/marketplace/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

func newAccountService() (*AccountService, *fakeAccountRepo) {
	repo := newFakeAccountRepo()
	svc := NewAccountService(repo, NewJWTService("secret", time.Hour))
	svc.hashCost = bcrypt.MinCost
	return svc, repo
}

func TestAccountService_SignupAndLogin(t *testing.T) {
	svc, repo := newAccountService()
	ctx := context.Background()

	signup, err := svc.Signup(ctx, &dto.SignupRequest{
		Email:    " Seller@Example.com ",
		Username: "seller",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if signup.Token == "" || signup.Account.Username != "seller" {
		t.Errorf("Unexpected signup response %+v", signup)
	}
	if stored := repo.byID[signup.ID]; stored.Email != "seller@example.com" || stored.Password == "correct-horse" {
		t.Errorf("Expected normalized email and hashed password, got %+v", stored)
	}

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "seller@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.ID != signup.ID {
		t.Errorf("Expected same account, got %v", login.ID)
	}
	if repo.byID[signup.ID].LastLogin.IsZero() {
		t.Error("Expected last login to be recorded")
	}

	account, err := svc.Authenticate(ctx, login.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if account.ID != signup.ID {
		t.Errorf("Expected authenticated account %v, got %v", signup.ID, account.ID)
	}
}

func TestAccountService_SignupDuplicateEmail(t *testing.T) {
	svc, _ := newAccountService()
	req := &dto.SignupRequest{Email: "a@b.c", Username: "ab", Password: "password1"}

	if _, err := svc.Signup(context.Background(), req); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	_, err := svc.Signup(context.Background(), req)
	if !errors.Is(err, apperrors.ErrEmailExists) {
		t.Errorf("Expected email exists, got %v", err)
	}
}

func TestAccountService_LoginFailures(t *testing.T) {
	svc, _ := newAccountService()
	_, _ = svc.Signup(context.Background(), &dto.SignupRequest{Email: "a@b.c", Username: "ab", Password: "password1"})

	tests := []struct {
		name string
		req  dto.LoginRequest
	}{
		{"wrong password", dto.LoginRequest{Email: "a@b.c", Password: "password2"}},
		{"unknown email", dto.LoginRequest{Email: "x@b.c", Password: "password1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &tt.req)
			if !errors.Is(err, apperrors.ErrInvalidCredentials) {
				t.Errorf("Expected invalid credentials, got %v", err)
			}
		})
	}
}

func TestAccountService_AuthenticateRejects(t *testing.T) {
	svc, repo := newAccountService()
	resp, _ := svc.Signup(context.Background(), &dto.SignupRequest{Email: "a@b.c", Username: "ab", Password: "password1"})

	if _, err := svc.Authenticate(context.Background(), "garbage"); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("Expected invalid token, got %v", err)
	}

	repo.byID[resp.ID].TokenVersion++
	if _, err := svc.Authenticate(context.Background(), resp.Token); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("Expected revoked token to be rejected, got %v", err)
	}

	delete(repo.byID, resp.ID)
	if _, err := svc.Authenticate(context.Background(), resp.Token); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("Expected unauthorized for removed account, got %v", err)
	}
}
