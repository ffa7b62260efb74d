package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	// Client disconnects can't be recovered from here.
	_, _ = buf.WriteTo(w)
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	body := map[string]string{"error": p.ErrCode}
	if p.Err != nil {
		body["message"] = p.Err.Error()
	}
	WriteJSON(w, p.Code, body)
}

// successResponse is the body the page scripts check before reloading.
type successResponse struct {
	Success bool `json:"success"`
}

func writeSuccess(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, successResponse{Success: true})
}
