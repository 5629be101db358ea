package domain

const ActionCardMove = "card.move"

// WebhookEvent is the card.move notification sent by the workflow tool.
type WebhookEvent struct {
	Data      CardMove `json:"data"`
	Timestamp string   `json:"timestamp,omitempty"`
	WebhookID string   `json:"webhook_id,omitempty"`
}

type CardMove struct {
	Action  string `json:"action"`
	From    Phase  `json:"from"`
	To      Phase  `json:"to"`
	MovedBy User   `json:"moved_by"`
	Card    Card   `json:"card"`
}

type Phase struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

type Card struct {
	ID            ID     `json:"id"`
	Title         string `json:"title"`
	PipeID        ID     `json:"pipe_id"`
	AttachmentURL string `json:"attachment_url"`
}
