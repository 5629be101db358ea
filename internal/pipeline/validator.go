package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"

	"github.com/kurochkinivan/attachment_analyzer/internal/domain"
)

// keyPattern never matches a leading underscore, which is reserved for store-owned
// keys such as domain.UnassignedPipe.
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// Verdict is the outcome of a successful validation.
type Verdict struct {
	Event      *domain.WebhookEvent
	Applicable bool
	Reason     string // why an inapplicable event is skipped
}

type Validator struct {
	triggerPhase string
	originPhase  string
	maxBodyBytes int64
}

func NewValidator(triggerPhase, originPhase string, maxBodyBytes int64) *Validator {
	return &Validator{
		triggerPhase: triggerPhase,
		originPhase:  originPhase,
		maxBodyBytes: maxBodyBytes,
	}
}

// Validate decodes body into a webhook event. Malformed payloads fail with
// domain.ErrValidation; well-formed events that do not target the trigger phase
// come back with Applicable set to false.
func (v *Validator) Validate(body io.Reader) (*Verdict, error) {
	event, err := v.decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := validateEvent(event); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	verdict := &Verdict{Event: event, Applicable: true}

	switch data := event.Data; {
	case data.Action != "" && data.Action != domain.ActionCardMove:
		verdict.Applicable = false
		verdict.Reason = fmt.Sprintf("action %q is not %s", data.Action, domain.ActionCardMove)
	case data.To.ID.String() != v.triggerPhase:
		verdict.Applicable = false
		verdict.Reason = fmt.Sprintf("destination phase %q is not the trigger phase", data.To.ID)
	case v.originPhase != "" && data.From.ID.String() != v.originPhase:
		verdict.Applicable = false
		verdict.Reason = fmt.Sprintf("origin phase %q is not the configured origin phase", data.From.ID)
	}

	return verdict, nil
}

func (v *Validator) decode(body io.Reader) (*domain.WebhookEvent, error) {
	if v.maxBodyBytes > 0 {
		body = io.LimitReader(body, v.maxBodyBytes+1)
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	if v.maxBodyBytes > 0 && int64(len(raw)) > v.maxBodyBytes {
		return nil, fmt.Errorf("body exceeds %d bytes", v.maxBodyBytes)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("empty body")
	}

	if raw[0] != '{' {
		return nil, errors.New("body is not a JSON object")
	}

	var event domain.WebhookEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, fmt.Errorf("failed to decode body: %w", err)
	}

	return &event, nil
}

func validateEvent(event *domain.WebhookEvent) error {
	card := event.Data.Card

	if card.ID == "" {
		return errors.New("data.card.id is required")
	}

	if !keyPattern.MatchString(card.ID.String()) {
		return fmt.Errorf("data.card.id %q has invalid characters", card.ID)
	}

	if card.PipeID != "" && !keyPattern.MatchString(card.PipeID.String()) {
		return fmt.Errorf("data.card.pipe_id %q has invalid characters", card.PipeID)
	}

	if event.Data.To.ID == "" {
		return errors.New("data.to.id is required")
	}

	if card.AttachmentURL == "" {
		return errors.New("data.card.attachment_url is required")
	}

	u, err := url.Parse(card.AttachmentURL)
	if err != nil {
		return fmt.Errorf("data.card.attachment_url is not a URL: %w", err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("data.card.attachment_url must be an absolute http(s) URL")
	}

	return nil
}
