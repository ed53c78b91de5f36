package entity

// ActionCategorizeEmails fetches the inbox page and submits it for categorization
const ActionCategorizeEmails = "categorizeEmails"

// ActionRequest triggers a named action
type ActionRequest struct {
	Action string `json:"action"`
}

// ActionResponse reports an action outcome.
// Categorization is set on success, Error on failure.
type ActionResponse struct {
	Success        bool                 `json:"success"`
	Categorization CategorizationResult `json:"categorization,omitempty"`
	Error          string               `json:"error,omitempty"`
}
