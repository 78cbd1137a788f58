package handler

// errorResponse documents the error envelope rendered by the API error
// handler.
type errorResponse struct {
	Message string         `json:"message"`
	Data    []fieldMessage `json:"data,omitempty"`
}

type fieldMessage struct {
	Message string `json:"message"`
}
