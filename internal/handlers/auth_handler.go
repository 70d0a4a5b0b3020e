package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/rtconnect/booking-gateway/internal/models"
	"github.com/rtconnect/booking-gateway/pkg/rtcapi"
	"github.com/rtconnect/booking-gateway/pkg/validator"
)

type AuthHandler struct {
	client *rtcapi.Client
	logger *logrus.Logger
}

func NewAuthHandler(client *rtcapi.Client, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{client: client, logger: logger}
}

// Login exchanges credentials for a bearer token. Field shape is checked
// locally before the remote call; the credential decision itself belongs to
// the remote server.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter both email and password"})
		return
	}

	if err := validator.ValidateEmail(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.client.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.WithError(err).WithField("email", req.Email).Warn("Login failed")
		respondUpstreamError(c, err)
		return
	}

	h.logger.WithField("user_id", result.User.ID).Info("Rider logged in")
	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"user":  result.User,
	})
}

// Register creates a rider account. All form fields are validated locally
// first so the rider gets field-level feedback without a round trip.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill out all registration fields"})
		return
	}

	if err := validator.ValidateName(req.Fullname); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validator.ValidateMobile(req.PhoneNumber); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validator.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validator.ValidatePasswordConfirmation(req.Password, req.ConfirmPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.client.RegisterUser(c.Request.Context(), &rtcapi.RegisterUserRequest{
		Fullname:    req.Fullname,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		h.logger.WithError(err).Warn("Registration failed")
		respondUpstreamError(c, err)
		return
	}

	h.logger.WithField("email", req.Email).Info("Rider account created")
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Registration successful. Please log in.",
		"redirect": "/login",
	})
}
