package service

import (
	"context"
	"net/url"

	"github.com/montanha-viva/mv-cli/internal/apiclient"
)

// Reward is one redeemable prize in the gamification catalog.
type Reward struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Cost        int    `json:"cost_points"`
	Available   bool   `json:"available"`
}

// Redemption is the outcome of spending points on a reward.
type Redemption struct {
	RewardID        string `json:"reward_id"`
	RemainingPoints int    `json:"remaining_points"`
	VoucherCode     string `json:"voucher_code,omitempty"`
}

// RewardService wraps the reward catalog endpoints.
type RewardService struct {
	client *apiclient.Client
}

// NewRewardService creates a RewardService.
func NewRewardService(client *apiclient.Client) *RewardService {
	return &RewardService{client: client}
}

// List returns the reward catalog.
func (s *RewardService) List(ctx context.Context) ([]Reward, error) {
	var rewards []Reward
	err := s.client.Get(ctx, "/rewards/", &rewards)
	return rewards, err
}

// Redeem spends points on a reward.
func (s *RewardService) Redeem(ctx context.Context, id string) (*Redemption, error) {
	var redemption Redemption
	err := s.client.Post(ctx, "/rewards/"+url.PathEscape(id)+"/redeem/", nil, &redemption)
	if err != nil {
		return nil, err
	}
	return &redemption, nil
}
