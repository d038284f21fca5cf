package service

import (
	"context"
	"net/url"

	"github.com/montanha-viva/mv-cli/internal/apiclient"
)

// ScanResult is the outcome of redeeming a QR code found on a trail.
type ScanResult struct {
	PointsAwarded int    `json:"points_awarded"`
	TotalPoints   int    `json:"total_points"`
	Message       string `json:"message,omitempty"`
}

// QRCode is one managed trail code as the admin listing returns it.
type QRCode struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Location string `json:"location"`
	Points   int    `json:"points"`
	Active   bool   `json:"active"`
}

// QRCodeInput is the admin creation request body.
type QRCodeInput struct {
	Code     string `json:"code" validate:"required"`
	Location string `json:"location" validate:"required"`
	Points   int    `json:"points" validate:"required,min=1"`
}

// QRService wraps the gamification QR endpoints.
type QRService struct {
	client *apiclient.Client
}

// NewQRService creates a QRService.
func NewQRService(client *apiclient.Client) *QRService {
	return &QRService{client: client}
}

// Scan redeems a scanned code for points.
func (s *QRService) Scan(ctx context.Context, code string) (*ScanResult, error) {
	var result ScanResult
	err := s.client.Post(ctx, "/qr/scan/", map[string]string{"code": code}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// List returns every managed trail code. Admin only.
func (s *QRService) List(ctx context.Context) ([]QRCode, error) {
	var codes []QRCode
	err := s.client.Get(ctx, "/qr/", &codes)
	return codes, err
}

// Create registers a new trail code. Admin only.
func (s *QRService) Create(ctx context.Context, in QRCodeInput) (*QRCode, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	var code QRCode
	if err := s.client.Post(ctx, "/qr/", in, &code); err != nil {
		return nil, err
	}
	return &code, nil
}

// Delete retires a trail code. Admin only.
func (s *QRService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/qr/"+url.PathEscape(id)+"/")
}
