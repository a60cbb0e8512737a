package routes

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"time-tracker/internal/jwt"
	"time-tracker/internal/storage"
)

type loginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func AuthRoutes(r *gin.RouterGroup, store storage.Provider) {

	// Desktop client login. The client authenticates with the verified
	// email only; verification of the mailbox happened at registration.
	r.POST("/login", func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
			return
		}

		employee, err := store.GetEmployeeByEmail(c.Request.Context(), req.Email)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				AbortWithError(c, ErrInvalidCredentials)
				return
			}
			AbortWithError(c, err)
			return
		}

		if !employee.IsVerified || employee.Status != storage.EmployeeActive {
			AbortWithError(c, ErrInvalidCredentials)
			return
		}

		token, err := jwt.GenerateJWT(jwt.NewAccessClaim(employee.ID, employee.Email))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		slog.Info("Employee logged in", "email", employee.Email, "id", employee.ID)

		c.JSON(http.StatusOK, gin.H{
			"access_token": token,
			"token_type":   "bearer",
			"employee":     employee,
		})
	})
}
