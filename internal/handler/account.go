package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Payphone-Digital/marketplace/internal/constants"
	"github.com/Payphone-Digital/marketplace/internal/dto"
	apperrors "github.com/Payphone-Digital/marketplace/internal/errors"
	ctxutil "github.com/Payphone-Digital/marketplace/pkg/context"
	"github.com/Payphone-Digital/marketplace/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type AccountService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type AccountHandler struct {
	accountService AccountService
}

func NewAccountHandler(accountService AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Signup handles POST /user/signup
func (h *AccountHandler) Signup(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "Signup")

	var req dto.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid signup request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(bindingMessage(err)))
		return
	}

	response, err := h.accountService.Signup(ctx, &req)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.WarnWithContext(ctx, "Signup failed").
			StatusCode(status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Login handles POST /user/login
func (h *AccountHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid login request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(bindingMessage(err)))
		return
	}

	response, err := h.accountService.Login(ctx, &req)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.WarnWithContext(ctx, "Login failed").
			String("email", req.Email).
			StatusCode(status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, response)
}

// bindingMessage reports the first failed binding rule.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return constants.MsgBadRequest
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "email must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must contain at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must contain at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
