package measurement

import (
	"SizeMeasurement/pkg/response"
	"net/http"
)

var (
	ErrInternalServerError = response.NewError(http.StatusInternalServerError, "internal server error")
	ErrBadRequest          = response.NewError(http.StatusBadRequest, "bad request")
	ErrInvalidParam        = response.NewError(http.StatusBadRequest, "invalid measurement parameter")
)
