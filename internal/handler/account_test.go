package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/Payphone-Digital/marketplace/internal/dto"
	apperrors "github.com/Payphone-Digital/marketplace/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type fakeAccountService struct {
	err error
}

func (f *fakeAccountService) Signup(_ context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.AuthResponse{ID: uuid.New(), Token: "t", Account: dto.PublicAccount{Username: req.Username}}, nil
}

func (f *fakeAccountService) Login(context.Context, *dto.LoginRequest) (*dto.AuthResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.AuthResponse{ID: uuid.New(), Token: "t"}, nil
}

func accountRouter(svc AccountService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAccountHandler(svc)
	r := gin.New()
	r.POST("/user/signup", h.Signup)
	r.POST("/user/login", h.Login)
	return r
}

func TestAccountHandler(t *testing.T) {
	tests := []struct {
		name    string
		svcErr  error
		path    string
		body    string
		status  int
		message string
	}{
		{"signup", nil, "/user/signup", `{"email":"a@b.c","username":"seller","password":"password1"}`, http.StatusCreated, ""},
		{"signup bad email", nil, "/user/signup", `{"email":"nope","username":"seller","password":"password1"}`, http.StatusBadRequest, "email must be a valid email address"},
		{"signup short password", nil, "/user/signup", `{"email":"a@b.c","username":"seller","password":"short"}`, http.StatusBadRequest, "password must contain at least 8 characters"},
		{"signup duplicate", apperrors.ErrEmailExists, "/user/signup", `{"email":"a@b.c","username":"seller","password":"password1"}`, http.StatusConflict, "email already exists"},
		{"login", nil, "/user/login", `{"email":"a@b.c","password":"password1"}`, http.StatusOK, ""},
		{"login missing password", nil, "/user/login", `{"email":"a@b.c"}`, http.StatusBadRequest, "password is required"},
		{"login wrong password", apperrors.ErrInvalidCredentials, "/user/login", `{"email":"a@b.c","password":"password1"}`, http.StatusUnauthorized, "invalid credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := serve(accountRouter(&fakeAccountService{err: tt.svcErr}), jsonRequest(http.MethodPost, tt.path, tt.body))

			if w.Code != tt.status {
				t.Fatalf("Expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
			if tt.message != "" && body["message"] != tt.message {
				t.Errorf("Expected message %q, got %v", tt.message, body["message"])
			}
			if tt.message == "" && body["token"] != "t" {
				t.Errorf("Expected token in response, got %v", body)
			}
		})
	}
}
