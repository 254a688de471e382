// internal/discovery/exclusion.go

package discovery

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Resolver computes the set of users a requester must never be shown
type Resolver struct {
	relationships RelationshipStore
}

func NewResolver(relationships RelationshipStore) *Resolver {
	return &Resolver{relationships: relationships}
}

// ResolveExclusions returns the requester, everyone they swiped on, everyone
// they blocked and everyone who blocked them. Any failed lookup fails the
// whole call; a partial set is never returned.
func (r *Resolver) ResolveExclusions(ctx context.Context, userID string) (ExclusionSet, error) {
	var swiped, blockedByMe, blockersOfMe []string

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ids, err := r.relationships.GetSwipedIDs(gCtx, userID)
		if err != nil {
			return storeError("get swiped ids", err)
		}
		swiped = ids
		return nil
	})
	g.Go(func() error {
		ids, err := r.relationships.GetBlockedByMe(gCtx, userID)
		if err != nil {
			return storeError("get blocked users", err)
		}
		blockedByMe = ids
		return nil
	})
	g.Go(func() error {
		ids, err := r.relationships.GetBlockersOfMe(gCtx, userID)
		if err != nil {
			return storeError("get blockers", err)
		}
		blockersOfMe = ids
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := make(ExclusionSet, 1+len(swiped)+len(blockedByMe)+len(blockersOfMe))
	set.Add(userID)
	set.Add(swiped...)
	set.Add(blockedByMe...)
	set.Add(blockersOfMe...)

	return set, nil
}
