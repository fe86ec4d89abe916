package models

// StatusCode is the lifecycle state of a market item
type StatusCode int32

const (
	StatusOpen StatusCode = iota + 1
	StatusClosed
	StatusDeleted
	StatusDeletedHard
	StatusHellbanned
)

// Status is the two-part state stored on every item.
// While an author is shadow-banned the item carries StatusHellbanned in Code
// and keeps its real state in Shadow, so the author's own view stays normal
// while everybody else sees nothing unusual either - just no item.
type Status struct {
	Code   StatusCode `json:"st" bson:"st"`
	Shadow StatusCode `json:"-" bson:"ste,omitempty"`
}

// NewOpenStatus returns the state of a freshly published item,
// honoring a shadow-ban on the author
func NewOpenStatus(authorHellbanned bool) Status {
	if authorHellbanned {
		return Status{Code: StatusHellbanned, Shadow: StatusOpen}
	}
	return Status{Code: StatusOpen}
}

// VisibleTo projects the pair onto the single status a viewer gets to see.
// The projection is total: every -possible- pair maps to exactly one code.
func (s Status) VisibleTo(canSeeHellbanned bool) StatusCode {
	if s.Code == StatusHellbanned && !canSeeHellbanned {
		return s.Shadow
	}
	return s.Code
}

// IsOpen reports whether the item is still live, regardless of a shadow-ban
func (s Status) IsOpen() bool {
	return s.Code == StatusOpen ||
		(s.Code == StatusHellbanned && s.Shadow == StatusOpen)
}

// Closed returns the state after an item is closed or archived.
// A shadow-banned item stays shadow-banned; only its real state moves on.
func (s Status) Closed() Status {
	if s.Code == StatusHellbanned {
		return Status{Code: StatusHellbanned, Shadow: StatusClosed}
	}
	return Status{Code: StatusClosed}
}
