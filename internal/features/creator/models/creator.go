package models

import "time"

// Creator is a tip-jar profile keyed by its X handle (canonical "@name" form).
// An unclaimed profile carries a one-time claim code; redeeming it binds
// wallet addresses and flips IsClaimed exactly once.
type Creator struct {
	Handle            string            `json:"handle"`
	Name              string            `json:"name"`
	Avatar            string            `json:"avatar,omitempty"`
	Description       string            `json:"description"`
	Wallets           map[string]string `json:"wallets"`
	IsClaimed         bool              `json:"isClaimed"`
	ClaimCode         string            `json:"claimCode,omitempty"`
	IsTwitterVerified bool              `json:"isTwitterVerified"`
	VerificationCode  string            `json:"verificationCode,omitempty"`
	VerifiedTweetURL  string            `json:"verifiedTweetUrl,omitempty"`
	UpvoteCount       int64             `json:"upvoteCount"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
	ClaimedAt         *time.Time        `json:"claimedAt,omitempty"`
	TwitterVerifiedAt *time.Time        `json:"twitterVerifiedAt,omitempty"`
}

// Clone returns a deep copy so store internals never alias caller state.
func (c *Creator) Clone() *Creator {
	cp := *c
	if c.Wallets != nil {
		cp.Wallets = make(map[string]string, len(c.Wallets))
		for k, v := range c.Wallets {
			cp.Wallets[k] = v
		}
	}
	if c.ClaimedAt != nil {
		t := *c.ClaimedAt
		cp.ClaimedAt = &t
	}
	if c.TwitterVerifiedAt != nil {
		t := *c.TwitterVerifiedAt
		cp.TwitterVerifiedAt = &t
	}
	return &cp
}

// CreatorResponse is the public projection of a profile. The claim code is
// a bearer secret and never leaves the server through read endpoints.
type CreatorResponse struct {
	Handle            string            `json:"handle"`
	Name              string            `json:"name"`
	Avatar            string            `json:"avatar,omitempty"`
	Description       string            `json:"description"`
	Wallets           map[string]string `json:"wallets"`
	IsClaimed         bool              `json:"isClaimed"`
	IsTwitterVerified bool              `json:"isTwitterVerified"`
	VerificationCode  string            `json:"verificationCode,omitempty"`
	UpvoteCount       int64             `json:"upvoteCount"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
	ClaimedAt         *time.Time        `json:"claimedAt,omitempty"`
	TwitterVerifiedAt *time.Time        `json:"twitterVerifiedAt,omitempty"`
}

// ProfileUpdate is a merge patch; nil fields are left untouched and wallet
// entries are added without discarding existing ones.
type ProfileUpdate struct {
	Name        *string           `json:"name,omitempty"`
	Avatar      *string           `json:"avatar,omitempty"`
	Description *string           `json:"description,omitempty"`
	Wallets     map[string]string `json:"wallets,omitempty"`
}

// RankedCreator is one row of the weighted creator ranking.
type RankedCreator struct {
	Handle      string `json:"handle"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar,omitempty"`
	Description string `json:"description"`
	IsClaimed   bool   `json:"isClaimed"`
	TipCount    int64  `json:"tipCount"`
	UpvoteCount int64  `json:"upvoteCount"`
	Score       int64  `json:"score"`
}

// ToResponse strips server-only fields.
func (c *Creator) ToResponse() *CreatorResponse {
	return &CreatorResponse{
		Handle:            c.Handle,
		Name:              c.Name,
		Avatar:            c.Avatar,
		Description:       c.Description,
		Wallets:           c.Wallets,
		IsClaimed:         c.IsClaimed,
		IsTwitterVerified: c.IsTwitterVerified,
		VerificationCode:  c.VerificationCode,
		UpvoteCount:       c.UpvoteCount,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
		ClaimedAt:         c.ClaimedAt,
		TwitterVerifiedAt: c.TwitterVerifiedAt,
	}
}
