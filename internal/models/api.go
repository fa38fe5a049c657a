package models

// --- Request Structs ---

// LoginRequest defines the expected body for the login endpoint.
type LoginRequest struct {
	Password string `json:"password"`
}

// CreateChatRequest defines the body for creating a new chat.
// The title is a placeholder; it is replaced after the first exchange.
type CreateChatRequest struct {
	Title string `json:"title"`
}

// UpdateChatRequest defines the body for renaming a chat.
type UpdateChatRequest struct {
	Title string `json:"title"`
}

// SendMessageRequest defines the body for the send endpoint.
// Model is optional; the configured default model is used when empty.
type SendMessageRequest struct {
	Content string `json:"content"`
	Model   string `json:"model,omitempty"`
}

// UpdateMessageRequest defines the body for editing a message's content.
type UpdateMessageRequest struct {
	Content string `json:"content"`
}

// --- Response Structs ---

// AuthResponse defines the response body for successful authentication.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SendMessageResponse carries the outcome of one send orchestration: the
// persisted user message, the persisted assistant message, and the updated
// chat when a title was generated (nil otherwise).
type SendMessageResponse struct {
	UserMessage *Message `json:"userMessage"`
	AIMessage   *Message `json:"aiMessage"`
	UpdatedChat *Chat    `json:"updatedChat"`
}

// ModelInfo identifies a selectable model and the provider family serving it.
type ModelInfo struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// SuccessResponse is returned by delete endpoints.
type SuccessResponse struct {
	Success bool `json:"success"`
}
