package service

import (
	"context"
	"time"

	"github.com/montanha-viva/mv-cli/internal/apiclient"
)

// FeedbackInput is the visitor feedback request body. Rating is the usual
// one-to-five scale.
type FeedbackInput struct {
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=4000"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

// Feedback is a submitted feedback entry as the admin listing returns it.
type Feedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackService wraps the feedback endpoints.
type FeedbackService struct {
	client *apiclient.Client
}

// NewFeedbackService creates a FeedbackService.
func NewFeedbackService(client *apiclient.Client) *FeedbackService {
	return &FeedbackService{client: client}
}

// Submit validates and sends a feedback entry.
func (s *FeedbackService) Submit(ctx context.Context, in FeedbackInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	return s.client.Post(ctx, "/feedback/", in, nil)
}

// List returns all submitted feedback. Admin only.
func (s *FeedbackService) List(ctx context.Context) ([]Feedback, error) {
	var entries []Feedback
	err := s.client.Get(ctx, "/feedback/", &entries)
	return entries, err
}
