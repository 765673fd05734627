package handlers

import (
	"net/http"

	"staffhub-backend/notification-service/services"
	"staffhub-backend/shared/config"

	"github.com/gin-gonic/gin"
)

// EmailHandler handles email-related HTTP requests
type EmailHandler struct {
	emailService *services.EmailService
	config       *config.Config
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(emailService *services.EmailService, cfg *config.Config) *EmailHandler {
	return &EmailHandler{
		emailService: emailService,
		config:       cfg,
	}
}

// WelcomeEmailRequest is the payload for the post-registration email
type WelcomeEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
}

// ApprovalDecisionEmailRequest is the payload for decision emails
type ApprovalDecisionEmailRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Name   string `json:"name" binding:"required"`
	Role   string `json:"role,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// SendEmail godoc
// @Summary Send email
// @Description Send an email through the notification service
// @Tags email
// @Accept json
// @Produce json
// @Param email body services.EmailRequest true "Email request"
// @Success 200 {object} services.EmailResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/notifications/email/send [post]
func (eh *EmailHandler) SendEmail(c *gin.Context) {
	var request services.EmailRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	response, err := eh.emailService.SendEmail(request)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to send email",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// SendWelcomeEmail godoc
// @Summary Send welcome email
// @Description Send the post-registration pending-approval email
// @Tags email
// @Accept json
// @Produce json
// @Param email body WelcomeEmailRequest true "Welcome email request"
// @Success 200 {object} services.EmailResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/notifications/email/welcome [post]
func (eh *EmailHandler) SendWelcomeEmail(c *gin.Context) {
	var request WelcomeEmailRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	response, err := eh.emailService.SendWelcomeEmail(request.Email, request.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to send welcome email",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// SendAccountApprovedEmail godoc
// @Summary Send account approved email
// @Description Notify an account holder that their application was approved
// @Tags email
// @Accept json
// @Produce json
// @Param email body ApprovalDecisionEmailRequest true "Decision email request"
// @Success 200 {object} services.EmailResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/notifications/email/account-approved [post]
func (eh *EmailHandler) SendAccountApprovedEmail(c *gin.Context) {
	var request ApprovalDecisionEmailRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	response, err := eh.emailService.SendAccountApprovedEmail(request.Email, request.Name, request.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to send approval email",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// SendAccountRejectedEmail godoc
// @Summary Send account rejected email
// @Description Notify an account holder that their application was rejected
// @Tags email
// @Accept json
// @Produce json
// @Param email body ApprovalDecisionEmailRequest true "Decision email request"
// @Success 200 {object} services.EmailResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/notifications/email/account-rejected [post]
func (eh *EmailHandler) SendAccountRejectedEmail(c *gin.Context) {
	var request ApprovalDecisionEmailRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	response, err := eh.emailService.SendAccountRejectedEmail(request.Email, request.Name, request.Reason)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to send rejection email",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}
