package authz

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/loopcrm/loopcrm-api/internal/domain/user"
)

// Directory is the read-only view over user records the engine resolves
// against. Satisfied by user.Repository.
type Directory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	List(ctx context.Context) ([]*user.User, error)
}

// Hierarchy computes the transitive subordinate closure over the directory.
// Stateless: every call re-reads the directory snapshot and allocates a fresh
// visited set, so hierarchy edits take effect on the next call and concurrent
// calls cannot interfere.
type Hierarchy struct {
	dir Directory
}

// NewHierarchy creates a hierarchy resolver
func NewHierarchy(dir Directory) *Hierarchy {
	return &Hierarchy{dir: dir}
}

// SubordinatesOf returns every user transitively reporting to id, excluding
// id itself, in breadth-first order over the current directory snapshot.
func (h *Hierarchy) SubordinatesOf(ctx context.Context, id uuid.UUID) ([]*user.User, error) {
	users, err := h.dir.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return SubordinatesIn(users, id), nil
}

// SubordinateIDs returns the closure as a set, for membership checks
func (h *Hierarchy) SubordinateIDs(ctx context.Context, id uuid.UUID) (map[uuid.UUID]struct{}, error) {
	subs, err := h.SubordinatesOf(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := make(map[uuid.UUID]struct{}, len(subs))
	for _, u := range subs {
		ids[u.ID] = struct{}{}
	}
	return ids, nil
}

// SubordinatesIn computes the subordinate closure of rootID within a
// directory snapshot. Iterative queue traversal over the inverse reports_to
// relation; the visited set is seeded with the root and consulted before
// every enqueue, so cyclic or dangling edges in corrupt data terminate after
// visiting each node at most once. Corrupt hierarchy data is a data-quality
// concern for the directory owner, not an error here. O(V + E).
func SubordinatesIn(users []*user.User, rootID uuid.UUID) []*user.User {
	children := make(map[uuid.UUID][]*user.User, len(users))
	for _, u := range users {
		if u.ReportsTo.Valid {
			children[u.ReportsTo.UUID] = append(children[u.ReportsTo.UUID], u)
		}
	}

	visited := map[uuid.UUID]struct{}{rootID: {}}
	queue := []uuid.UUID{rootID}
	var out []*user.User

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, child := range children[current] {
			if _, seen := visited[child.ID]; seen {
				continue
			}
			visited[child.ID] = struct{}{}
			out = append(out, child)
			queue = append(queue, child.ID)
		}
	}

	return out
}
