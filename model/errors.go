package model

import "errors"

var (
	ErrConfig           = errors.New("CONFIG_ERROR")
	ErrUnauthorized     = errors.New("UNAUTHORIZED")
	ErrUnexpectedStatus = errors.New("UNEXPECTED_STATUS")
	ErrInvalidData      = errors.New("INVALID_DATA_FOUND")
	ErrFetch            = errors.New("FETCH_ERROR")
	ErrRateLimit        = errors.New("RATE_LIMIT_REACHED")
	ErrWrite            = errors.New("WRITE_ERROR")
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewAPIError(errReason error) APIError {
	switch {
	case errors.Is(errReason, ErrRateLimit):
		return APIError{
			Code:    ErrRateLimit.Error(),
			Message: "github rate limit reached. consider using a token to increase the limit or wait few minutes and try again",
		}

	case errors.Is(errReason, ErrUnauthorized):
		return APIError{
			Code:    ErrUnauthorized.Error(),
			Message: "the request was refused. check the API_KEY value, or GITHUB_TOKEN when set",
		}

	case errors.Is(errReason, ErrConfig):
		return APIError{
			Code:    ErrConfig.Error(),
			Message: "the generator is not configured. check BASE_URL and API_KEY",
		}
	}

	for _, internal := range []error{ErrUnexpectedStatus, ErrInvalidData, ErrFetch} {
		if errors.Is(errReason, internal) {
			return APIError{
				Code:    internal.Error(),
				Message: "internal server error. contact our support with the reason code for assistance",
			}
		}
	}

	return APIError{
		Code:    "GENERIC_ERROR",
		Message: "internal server error. contact our support with the reason code for assistance",
	}
}
