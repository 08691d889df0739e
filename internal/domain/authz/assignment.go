package authz

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/loopcrm/loopcrm-api/internal/domain/restriction"
	"github.com/loopcrm/loopcrm-api/internal/domain/user"
)

// RestrictionSource reports active restrictions targeting a user. The engine
// returns them verbatim alongside the assignable set; it never interprets
// their scope.
type RestrictionSource interface {
	ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]*restriction.Restriction, error)
}

// AssignableSet is the resolved answer for one actor: the users the actor may
// assign work to or view, plus any active restrictions narrowing it.
type AssignableSet struct {
	Actor        *user.User
	Users        []*user.User
	Restrictions []*restriction.Restriction
}

// Resolver composes the subordinate closure with static role grants and the
// restriction overlay. Stateless; every call resolves against one fresh
// directory snapshot.
type Resolver struct {
	dir          Directory
	restrictions RestrictionSource
}

// NewResolver creates an assignment resolver. restrictions may be nil.
func NewResolver(dir Directory, restrictions RestrictionSource) *Resolver {
	return &Resolver{dir: dir, restrictions: restrictions}
}

// AssignableUsersFor resolves the assignable set for an actor.
//
// Merge order is fixed and id-deduplicated, so repeated calls against an
// unchanged snapshot return the same sequence:
//  1. the actor, always, regardless of status;
//  2. the actor's subordinate closure, active users only;
//  3. static role grants, active users only: super_admin gets everyone,
//     senior_manager gets managers, team leaders and counselors, manager
//     gets team leaders and counselors.
//
// An unknown actor is a NotFound failure, never an empty set.
func (r *Resolver) AssignableUsersFor(ctx context.Context, actorID uuid.UUID) (*AssignableSet, error) {
	users, err := r.dir.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var actor *user.User
	for _, u := range users {
		if u.ID == actorID {
			actor = u
			break
		}
	}
	if actor == nil {
		return nil, ErrActorNotFound
	}

	seen := map[uuid.UUID]struct{}{actor.ID: {}}
	assignable := []*user.User{actor}

	for _, u := range SubordinatesIn(users, actor.ID) {
		if !u.IsActive() {
			continue
		}
		if _, ok := seen[u.ID]; ok {
			continue
		}
		seen[u.ID] = struct{}{}
		assignable = append(assignable, u)
	}

	if roles, ok := grantRoles[actor.Role]; ok {
		granted := make(map[user.Role]struct{}, len(roles))
		for _, role := range roles {
			granted[role] = struct{}{}
		}
		for _, u := range users {
			if !u.IsActive() {
				continue
			}
			if _, ok := granted[u.Role]; !ok {
				continue
			}
			if _, ok := seen[u.ID]; ok {
				continue
			}
			seen[u.ID] = struct{}{}
			assignable = append(assignable, u)
		}
	}

	set := &AssignableSet{Actor: actor, Users: assignable}

	if r.restrictions != nil {
		active, err := r.restrictions.ListActiveForUser(ctx, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		set.Restrictions = active
	}

	return set, nil
}

// CanAssign reports whether actor may assign work to target
func (r *Resolver) CanAssign(ctx context.Context, actorID, targetID uuid.UUID) (bool, error) {
	set, err := r.AssignableUsersFor(ctx, actorID)
	if err != nil {
		return false, err
	}
	for _, u := range set.Users {
		if u.ID == targetID {
			return true, nil
		}
	}
	return false, nil
}

// AssignableIDs resolves the assignable set as ids, for repository filters
func (r *Resolver) AssignableIDs(ctx context.Context, actorID uuid.UUID) ([]uuid.UUID, error) {
	set, err := r.AssignableUsersFor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(set.Users))
	for i, u := range set.Users {
		ids[i] = u.ID
	}
	return ids, nil
}
