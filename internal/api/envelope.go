package api

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
)

// Envelope is the uniform response wrapper the portal API answers with.
// Data stays raw until the calling operation decodes it into its own type.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Count   int             `json:"count,omitempty"`
}

// decodeData consumes resp and either returns the envelope's data decoded
// into T, or the classified error. A void operation decodes into struct{}.
func decodeData[T any](resp *http.Response) (T, error) {
	var zero T

	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, networkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return zero, classifyStatus(resp.StatusCode, body)
	}

	if !isJSONContentType(resp.Header.Get("Content-Type")) {
		return zero, malformedError(msgNotJSON, nil)
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, malformedError(msgInvalidJSON, err)
	}

	if !env.Success {
		message := env.Error
		if message == "" {
			message = env.Message
		}
		if message == "" {
			message = "Request failed"
		}
		return zero, validationError(message)
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		return zero, nil
	}

	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return zero, malformedError(msgInvalidJSON, err)
	}
	return out, nil
}

// classifyStatus maps a non-2xx response onto the error taxonomy. 401 never
// reaches here; the Client intercepts it before any service sees the
// response.
func classifyStatus(status int, body []byte) *Error {
	message := bodyError(body)

	switch status {
	case http.StatusForbidden:
		return forbiddenError(message)
	case http.StatusNotFound:
		return notFoundError(message)
	default:
		if message != "" {
			return validationError(message)
		}
		return serverError(status)
	}
}

// bodyError pulls the server's own error message out of a failure body, if
// there is one to pass through verbatim.
func bodyError(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}
