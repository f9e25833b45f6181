package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-task-sync/models"
)

// reconciler maps one batch of remote ids onto local rows.
//
// It is built from the (remote id, local id) pairs of exactly the batch's
// remote ids. Each remote id resolves to at most one local row; Claim
// consumes the mapping so Leftovers returns rows the batch did not mention.
type reconciler struct {
	locals map[int64]int64
}

// newReconciler builds the batch map. When two local rows share a remote id
// the row already in the map is deleted and the later one kept, which
// restores remote id uniqueness on every merge.
func newReconciler(ctx context.Context, pairs []models.IDPair, deleteLocal func(ctx context.Context, localID int64) error) (*reconciler, error) {
	locals := make(map[int64]int64, len(pairs))

	for _, pair := range pairs {
		if prev, ok := locals[pair.RemoteID]; ok && prev != pair.LocalID {
			if err := deleteLocal(ctx, prev); err != nil {
				return nil, fmt.Errorf("collapse duplicate of remote id %d: %w", pair.RemoteID, err)
			}
		}
		locals[pair.RemoteID] = pair.LocalID
	}

	return &reconciler{locals: locals}, nil
}

// Claim returns the local row of remoteID, or false when the item is new.
// A remote id can be claimed once.
func (r *reconciler) Claim(remoteID int64) (int64, bool) {
	localID, ok := r.locals[remoteID]
	if ok {
		delete(r.locals, remoteID)
	}
	return localID, ok
}

// Leftovers returns the unclaimed local ids in ascending order.
func (r *reconciler) Leftovers() []int64 {
	out := make([]int64, 0, len(r.locals))
	for _, localID := range r.locals {
		out = append(out, localID)
	}
	slices.Sort(out)
	return out
}
