package models

import "time"

// Supported signature chains.
const (
	ChainEthereum = "ETH"
	ChainSolana   = "SOL"
)

// Upvote is one endorsement. Existence of the (CreatorHandle, VoterWallet)
// pair is itself the "has voted" flag; records are never updated or deleted.
type Upvote struct {
	ID            int64     `json:"id"`
	CreatorHandle string    `json:"creatorHandle"`
	VoterWallet   string    `json:"voterWallet"`
	Chain         string    `json:"chain"`
	Signature     string    `json:"signature"`
	CreatedAt     time.Time `json:"createdAt"`
}
