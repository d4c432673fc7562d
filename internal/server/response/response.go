// Package response writes the JSON bodies shared by every HTTP handler.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the error payload: {"detail": "<message>"}.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// StatusBody is the acknowledgment payload used by / and DELETE /predictions.
type StatusBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func RespondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Detail: msg})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
