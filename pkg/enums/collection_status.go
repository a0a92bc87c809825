package enums

import "fmt"

// CollectionStatus maps to the collection_status_enum type in Postgres.
type CollectionStatus string

const (
	CollectionStatusPending   CollectionStatus = "pending"
	CollectionStatusSubmitted CollectionStatus = "submitted"
	CollectionStatusApproved  CollectionStatus = "approved"
	CollectionStatusRejected  CollectionStatus = "rejected"
	CollectionStatusCompleted CollectionStatus = "completed"
)

var validCollectionStatuses = []CollectionStatus{
	CollectionStatusPending,
	CollectionStatusSubmitted,
	CollectionStatusApproved,
	CollectionStatusRejected,
	CollectionStatusCompleted,
}

// collectionTransitions lists the statuses each status may move to via the
// admin PATCH. Terminal statuses have no outgoing edges.
var collectionTransitions = map[CollectionStatus][]CollectionStatus{
	CollectionStatusPending:   {CollectionStatusSubmitted, CollectionStatusApproved, CollectionStatusRejected},
	CollectionStatusSubmitted: {CollectionStatusApproved, CollectionStatusRejected},
	CollectionStatusApproved:  {CollectionStatusCompleted},
	CollectionStatusRejected:  {},
	CollectionStatusCompleted: {},
}

// IsValid reports whether the value matches the canonical collection status enum.
func (s CollectionStatus) IsValid() bool {
	for _, candidate := range validCollectionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the admin status PATCH may move a
// collection from s to next.
func (s CollectionStatus) CanTransitionTo(next CollectionStatus) bool {
	for _, candidate := range collectionTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseCollectionStatus converts raw input into CollectionStatus.
func ParseCollectionStatus(value string) (CollectionStatus, error) {
	for _, candidate := range validCollectionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid collection status %q", value)
}
