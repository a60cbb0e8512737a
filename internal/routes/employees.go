package routes

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	. "time-tracker/internal/config"
	"time-tracker/internal/email"
	"time-tracker/internal/jwt"
	"time-tracker/internal/storage"
)

type registerEmployeeRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type updateEmployeeRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email" binding:"omitempty,email"`
	Status *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type verifyEmployeeRequest struct {
	Token string `json:"token" binding:"required"`
}

// issueVerification generates a fresh verification token for the employee,
// stores it and mails the verification link. A mail failure is logged but
// does not fail registration; the link is recoverable through re-registering.
func issueVerification(c *gin.Context, store storage.Provider, sender *email.Sender, employee *storage.Employee) error {
	token, err := jwt.GenerateJWT(jwt.NewVerificationClaim(employee.ID))
	if err != nil {
		return fmt.Errorf("failed to generate verification token: %w", err)
	}

	if err := store.SetVerificationToken(c.Request.Context(), employee.ID, token); err != nil {
		return err
	}
	employee.VerificationToken = &token

	link := fmt.Sprintf("%s/verify-email?token=%s&id=%d",
		Cfg.FrontendURL, url.QueryEscape(token), employee.ID)

	if err := sender.SendVerification(employee.Email, employee.Name, link); err != nil {
		slog.Error("Failed to send verification email", "email", employee.Email, "error", err)
	}

	return nil
}

func EmployeeRoutes(r *gin.RouterGroup, store storage.Provider, sender *email.Sender) {

	// Register a new employee. Registering an existing unverified email
	// re-issues the verification token instead of failing, so a lost email
	// is recoverable. A verified email cannot be registered again.
	r.POST("", func(c *gin.Context) {
		var req registerEmployeeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
			return
		}

		existing, err := store.GetEmployeeByEmail(c.Request.Context(), req.Email)
		if err == nil {
			if existing.IsVerified {
				AbortWithError(c, ErrAlreadyVerified)
				return
			}
			if err := issueVerification(c, store, sender, existing); err != nil {
				AbortWithError(c, err)
				return
			}
			slog.Info("Re-issued verification for unverified employee", "email", existing.Email, "id", existing.ID)
			c.JSON(http.StatusCreated, existing)
			return
		} else if !errors.Is(err, storage.ErrNotFound) {
			AbortWithError(c, err)
			return
		}

		employee := &storage.Employee{
			Name:   req.Name,
			Email:  req.Email,
			Status: storage.EmployeeInactive,
		}
		if err := store.CreateEmployee(c.Request.Context(), employee); err != nil {
			AbortWithError(c, err)
			return
		}

		if err := issueVerification(c, store, sender, employee); err != nil {
			AbortWithError(c, err)
			return
		}

		slog.Info("Registered employee", "email", employee.Email, "id", employee.ID)
		c.JSON(http.StatusCreated, employee)
	})

	r.GET("", func(c *gin.Context) {
		limit, offset, ok := pagination(c)
		if !ok {
			return
		}

		employees, err := store.ListEmployees(c.Request.Context(), limit, offset)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if employees == nil {
			employees = []storage.Employee{}
		}

		c.JSON(http.StatusOK, employees)
	})

	r.GET("/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		employee, err := store.GetEmployee(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, employee)
	})

	r.PATCH("/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		var req updateEmployeeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
			return
		}

		employee, err := store.UpdateEmployee(c.Request.Context(), id, storage.EmployeeUpdate{
			Name:   req.Name,
			Email:  req.Email,
			Status: req.Status,
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, employee)
	})

	// Soft delete: the employee is deactivated, never removed, so time
	// entries and screenshots keep their references.
	r.DELETE("/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		if err := store.DeactivateEmployee(c.Request.Context(), id); err != nil {
			AbortWithError(c, err)
			return
		}

		slog.Info("Deactivated employee", "id", id)
		c.JSON(http.StatusOK, gin.H{"message": "Employee deactivated successfully"})
	})

	// Verify an employee email with the token from the verification link.
	// The token must decode, be of the verification type, belong to this
	// employee and match the stored token.
	r.POST("/:id/verify", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		var req verifyEmployeeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
			return
		}

		claims, err := jwt.DecodeVerificationJWT(req.Token)
		if err != nil {
			slog.Warn("Invalid verification token", "id", id, "error", err)
			AbortWithError(c, ErrInvalidVerificationLink)
			return
		}
		if claims.EmployeeID != id {
			slog.Warn("Verification token for wrong employee", "id", id, "token_employee", claims.EmployeeID)
			AbortWithError(c, ErrInvalidVerificationLink)
			return
		}

		employee, err := store.GetEmployee(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if employee.VerificationToken == nil || *employee.VerificationToken != req.Token {
			AbortWithError(c, ErrInvalidVerificationLink)
			return
		}

		verified, err := store.MarkEmployeeVerified(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		slog.Info("Employee verified", "id", id, "email", verified.Email)
		c.JSON(http.StatusOK, verified)
	})
}
