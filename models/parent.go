package models

import "time"

const (
	TierFree    = "free"
	TierBasic   = "basic"
	TierPremium = "premium"
	TierFamily  = "family"
)

// deviceCaps is the number of devices a single child may register per subscription tier.
var deviceCaps = map[string]int{
	TierFree:    2,
	TierBasic:   3,
	TierPremium: 5,
	TierFamily:  10,
}

type Parent struct {
	ID               uint      `json:"id" gorm:"primary_key"`
	FirebaseUID      string    `json:"firebase_uid" gorm:"uniqueIndex"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Lang             string    `json:"lang"`
	DeviceToken      string    `json:"-"`
	SubscriptionTier string    `json:"subscription_tier" gorm:"default:free"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DeviceCap returns the per-child device cap for the parent's tier. Unknown tiers get the free cap.
func (p Parent) DeviceCap() int {
	if limit, ok := deviceCaps[p.SubscriptionTier]; ok {
		return limit
	}
	return deviceCaps[TierFree]
}
