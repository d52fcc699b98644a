package domain

import "time"

// TeamSettings configures per-team behavior.
type TeamSettings struct {
	WidgetEnabled  bool `json:"widget_enabled"`
	AutoAssignment bool `json:"auto_assignment"`
}

// Team groups agents and owns tickets routed to it.
type Team struct {
	ID        string
	Name      string
	Settings  TeamSettings
	CreatedAt time.Time
	UpdatedAt time.Time
}
