package offer

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of an offer.
type Status string

const (
	StatusOpen           Status = "OPEN"
	StatusTakerLocked    Status = "TAKER_LOCKED"
	StatusBothLocked     Status = "BOTH_LOCKED"
	StatusCreatorClaimed Status = "CREATOR_CLAIMED"
	StatusClosed         Status = "CLOSED"
	StatusExpired        Status = "EXPIRED"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{
	StatusOpen, StatusTakerLocked, StatusBothLocked, StatusCreatorClaimed, StatusClosed, StatusExpired,
}

// ActiveStatuses are the states from which an offer can still expire.
var ActiveStatuses = []Status{StatusOpen, StatusTakerLocked, StatusBothLocked}

// Terminal reports whether no further status change is possible.
func (s Status) Terminal() bool {
	return s == StatusClosed || s == StatusExpired
}

// Active reports whether the offer can still expire.
func (s Status) Active() bool {
	switch s {
	case StatusOpen, StatusTakerLocked, StatusBothLocked:
		return true
	}
	return false
}

// ParseStatus parses a status name case-insensitively.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllStatuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidTerms, s)
}

// Side names one of the two parties and the leg it funds.
type Side string

const (
	SideCreator Side = "creator"
	SideTaker   Side = "taker"
)

// Other returns the counterparty.
func (s Side) Other() Side {
	if s == SideCreator {
		return SideTaker
	}
	return SideCreator
}

// ParseSide parses a side name case-insensitively.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case SideCreator:
		return SideCreator, nil
	case SideTaker:
		return SideTaker, nil
	}
	return "", fmt.Errorf("%w: unknown side %q", ErrInvalidTerms, s)
}
