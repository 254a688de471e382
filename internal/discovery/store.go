package discovery

import "context"

// ProfileStore reads profiles
type ProfileStore interface {
	// GetByUserID returns ErrProfileNotFound when no profile exists
	GetByUserID(ctx context.Context, userID string) (*UserProfile, error)
	// FindEligible returns at most limit visible, complete profiles not in excluding
	FindEligible(ctx context.Context, excluding ExclusionSet, limit int) ([]*UserProfile, error)
}

// RelationshipStore reads swipe and block history
type RelationshipStore interface {
	GetSwipedIDs(ctx context.Context, swiperID string) ([]string, error)
	GetBlockedByMe(ctx context.Context, userID string) ([]string, error)
	GetBlockersOfMe(ctx context.Context, userID string) ([]string, error)
}
