package handler

// DiagramRequest is the body of POST /generate-diagram.
type DiagramRequest struct {
	Description string `json:"description" validate:"required,min=10,max=2000"`
	Format      string `json:"format" validate:"omitempty,oneof=png svg jpg"`
}

// DiagramResponse mirrors the generation result. Error is set only when
// Success is false; DiagramCode then carries the source that failed to
// render, when one exists.
type DiagramResponse struct {
	Success     bool   `json:"success"`
	ImageURL    string `json:"image_url,omitempty"`
	DiagramCode string `json:"diagram_code,omitempty"`
	Error       string `json:"error,omitempty"`
}

// AssistantRequest is the body of POST /assistant.
type AssistantRequest struct {
	Message        string `json:"message" validate:"required,min=1,max=2000"`
	ConversationID string `json:"conversation_id" validate:"omitempty,max=128"`
}

type AssistantResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
	HasDiagram     bool   `json:"has_diagram"`
	ImageURL       string `json:"image_url,omitempty"`
	DiagramCode    string `json:"diagram_code,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	LLM       string `json:"llm"`
	Timestamp string `json:"timestamp"`
}

type CleanupResponse struct {
	Deleted int `json:"deleted"`
}

type errorResponse struct {
	Error string `json:"error"`
}
