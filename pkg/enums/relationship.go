package enums

import "fmt"

// RelationshipType is the kind of trading edge, from the requester's point of view.
type RelationshipType string

const (
	RelationshipTypeSupplier RelationshipType = "supplier"
	RelationshipTypeConsumer RelationshipType = "consumer"
)

var validRelationshipTypes = []RelationshipType{
	RelationshipTypeSupplier,
	RelationshipTypeConsumer,
}

// String implements fmt.Stringer.
func (t RelationshipType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known RelationshipType.
func (t RelationshipType) IsValid() bool {
	for _, candidate := range validRelationshipTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// Mirror returns the edge type the counterparty sees.
func (t RelationshipType) Mirror() RelationshipType {
	if t == RelationshipTypeSupplier {
		return RelationshipTypeConsumer
	}
	return RelationshipTypeSupplier
}

// ParseRelationshipType converts raw input into a RelationshipType.
func ParseRelationshipType(value string) (RelationshipType, error) {
	for _, candidate := range validRelationshipTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid relationship type %q", value)
}

// RequestStatus tracks a relationship handshake.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

// String implements fmt.Stringer.
func (s RequestStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RequestStatus.
func (s RequestStatus) IsValid() bool {
	return s == RequestStatusPending || s == RequestStatusAccepted || s == RequestStatusRejected
}
