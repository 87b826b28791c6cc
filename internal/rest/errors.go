package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/market-front/domain"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// getStatusCode maps usecase and backend errors to the status the UI reacts to
func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs),
		errors.Is(err, domain.ErrBadParamInput),
		errors.Is(err, domain.ErrEmptyContent):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRequestFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes the error with the backend's own message when it sent one.
func abortWithError(c *gin.Context, err error) {
	code := getStatusCode(err)
	msg := domain.MessageOf(err, "")
	switch {
	case code >= http.StatusInternalServerError:
		logrus.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		if msg == "" && code == http.StatusBadGateway {
			msg = domain.ErrRequestFailed.Error()
		} else if msg == "" {
			msg = domain.ErrInternalServerError.Error()
		}
	case msg == "":
		msg = err.Error()
	}
	c.AbortWithStatusJSON(code, ResponseError{Message: msg})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
}

func productID(c *gin.Context) domain.ID {
	return domain.ID(c.Param("id"))
}
