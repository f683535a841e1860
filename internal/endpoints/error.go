package endpoints

import (
	"errors"
)

const (
	API_SUCCESS      = iota + 303000 // 303000
	API_FAILURE                      // 303001 - Generic API failure
	API_UNAUTHORIZED                 // 303002 - Authentication/Authorization failure
)

const (
	INVALID_REQUEST_BODY = iota + 101 // 101 - Error parsing request body
	INVALID_PARAMETERS                // 102 - Invalid URL or query parameters
	MISSING_METRIC_NAME               // 103 - metric_name field absent or blank
	MISSING_METRIC_VALUE              // 104 - value field absent
	INVALID_METRIC_VALUE              // 105 - value field not coercible to a number
	METRIC_STORE_FAILURE              // 106 - Object store rejected the write
	REQUEST_CANCELLED                 // 107 - Request was cancelled by client or server timeout
)

var (
	ErrInvalidRequestBody = errors.New("request body must be valid JSON with Content-Type application/json")
	ErrInvalidParameters  = errors.New("invalid limit parameter; must be a positive integer")
	ErrMissingMetricName  = errors.New("missing required field: metric_name")
	ErrMissingMetricValue = errors.New("missing required field: value")
	ErrInvalidMetricValue = errors.New(`field "value" must be a number`)
	ErrMetricStoreFailure = errors.New("failed to store metric")
	ErrRequestCancelled   = errors.New("request cancelled by client or server timeout")
)

func GetErrorCode(err error) int {
	if err == nil {
		return API_SUCCESS
	}

	switch {
	case errors.Is(err, ErrInvalidRequestBody):
		return INVALID_REQUEST_BODY
	case errors.Is(err, ErrInvalidParameters):
		return INVALID_PARAMETERS
	case errors.Is(err, ErrMissingMetricName):
		return MISSING_METRIC_NAME
	case errors.Is(err, ErrMissingMetricValue):
		return MISSING_METRIC_VALUE
	case errors.Is(err, ErrInvalidMetricValue):
		return INVALID_METRIC_VALUE
	case errors.Is(err, ErrMetricStoreFailure):
		return METRIC_STORE_FAILURE
	case errors.Is(err, ErrRequestCancelled):
		return REQUEST_CANCELLED
	default:
		return API_FAILURE // Default for any unhandled error
	}
}
