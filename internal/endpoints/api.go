package endpoints

import (
	"encoding/json"
	"net/http"
)

type APIResponse struct {
	Status    bool        `json:"status"`
	Value     interface{} `json:"value,omitempty"`
	Error     string      `json:"error,omitempty"`
	ErrorCode int         `json:"error_code"`
}

func (res APIResponse) WriteErrorResponseWithStatusCode(w http.ResponseWriter, err error, statusCode int) {
	res.Status = false
	res.Error = err.Error()
	if statusCode == http.StatusUnauthorized {
		res.ErrorCode = API_UNAUTHORIZED
	} else {
		res.ErrorCode = GetErrorCode(err)
	}

	writeJSON(w, res, statusCode)
}

// WriteFailureResponseWithValue reports a failed operation while still
// carrying a payload, e.g. a store result echoing the attempted record.
func (res APIResponse) WriteFailureResponseWithValue(w http.ResponseWriter, err error, value interface{}, statusCode int) {
	res.Status = false
	res.Error = err.Error()
	res.ErrorCode = GetErrorCode(err)
	res.Value = value

	writeJSON(w, res, statusCode)
}

func (res APIResponse) WriteResultResponse(w http.ResponseWriter, result interface{}) {
	res.WriteResultResponseWithStatusCode(w, result, http.StatusOK)
}

func (res APIResponse) WriteResultResponseWithStatusCode(w http.ResponseWriter, result interface{}, statusCode int) {
	res.Status = true
	res.Value = result
	res.ErrorCode = GetErrorCode(nil)

	writeJSON(w, res, statusCode)
}

func writeJSON(w http.ResponseWriter, payload interface{}, statusCode int) {
	body, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(statusCode)
	w.Write(body)
}
