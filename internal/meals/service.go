// Package meals provides the typed mutation surface for the school-meal
// flows the app can perform offline: meal feedback, emergency status
// updates, and menu quality-control entries.
package meals

import (
	"context"
	"fmt"

	"github.com/lunchline/core/internal/api"
	"github.com/lunchline/core/internal/offline"
)

// FeedbackInput is a parent or student rating of a served meal.
type FeedbackInput struct {
	MenuItemID string `json:"menu_item_id"`
	Rating     int    `json:"rating"` // 1..5
	Comment    string `json:"comment,omitempty"`
}

// Feedback is the server's record of a submitted rating.
type Feedback struct {
	ID         string `json:"id"`
	MenuItemID string `json:"menu_item_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// EmergencyStatusInput updates the status of a kitchen emergency report.
type EmergencyStatusInput struct {
	EmergencyID string `json:"-"`
	Status      string `json:"status"` // open, acknowledged, resolved
	Note        string `json:"note,omitempty"`
}

// MenuQCInput is a kitchen staff quality-control entry for a menu item.
type MenuQCInput struct {
	MenuItemID  string  `json:"menu_item_id"`
	Temperature float64 `json:"temperature_c"`
	Passed      bool    `json:"passed"`
	Notes       string  `json:"notes,omitempty"`
}

// Service issues meal-program mutations through the offline-aware wrapper.
type Service struct {
	client  *api.Client
	wrapper *offline.Wrapper
}

// NewService creates a Service.
func NewService(client *api.Client, wrapper *offline.Wrapper) *Service {
	return &Service{
		client:  client,
		wrapper: wrapper,
	}
}

// SubmitFeedback submits meal feedback. Offline, the feedback is queued
// and a nil result is returned.
func (s *Service) SubmitFeedback(ctx context.Context, input FeedbackInput) (*Feedback, error) {
	m := &offline.Mutation{
		Endpoint: "feedback/",
		Method:   "POST",
		Run: func(ctx context.Context, variables any) (any, error) {
			var created Feedback
			err := s.client.Do(ctx, "feedback/", "POST", variables, nil, &created)
			if err != nil {
				return nil, err
			}
			return &created, nil
		},
		Serialize: func(variables any) (any, error) {
			return variables, nil
		},
		QueuedMessage: "Feedback saved. It will be sent when you're back online.",
	}

	result, err := s.wrapper.Mutate(ctx, m, input)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil // accepted, not yet confirmed
	}
	return result.(*Feedback), nil
}

// UpdateEmergencyStatus updates an emergency report's status.
func (s *Service) UpdateEmergencyStatus(ctx context.Context, input EmergencyStatusInput) error {
	endpoint := fmt.Sprintf("emergencies/%s/status/", input.EmergencyID)

	m := &offline.Mutation{
		Endpoint: endpoint,
		Method:   "PATCH",
		Run: func(ctx context.Context, variables any) (any, error) {
			return nil, s.client.Do(ctx, endpoint, "PATCH", variables, nil, nil)
		},
		Serialize: func(variables any) (any, error) {
			return variables, nil
		},
		QueuedMessage: "Status update saved. It will be sent when you're back online.",
	}

	_, err := s.wrapper.Mutate(ctx, m, input)
	return err
}

// SubmitMenuQC records a quality-control entry for a menu item.
func (s *Service) SubmitMenuQC(ctx context.Context, input MenuQCInput) error {
	m := &offline.Mutation{
		Endpoint: "menu-qc/",
		Method:   "POST",
		Run: func(ctx context.Context, variables any) (any, error) {
			return nil, s.client.Do(ctx, "menu-qc/", "POST", variables, nil, nil)
		},
		Serialize: func(variables any) (any, error) {
			return variables, nil
		},
		QueuedMessage: "QC entry saved. It will be sent when you're back online.",
	}

	_, err := s.wrapper.Mutate(ctx, m, input)
	return err
}
