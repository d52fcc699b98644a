package dto

// WidgetIntakeRequest is the public intake payload.
type WidgetIntakeRequest struct {
	TeamID  string `json:"team_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// WidgetIntakeResponse returns the shareable ticket reference.
type WidgetIntakeResponse struct {
	Reference string `json:"reference"`
}
