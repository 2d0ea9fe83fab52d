// Package address provides delivery address book management.
package address

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrAddressNotFound = errors.New("address not found")
)

// TimeWindow is a soft delivery window preference. It is carried through
// planning but does not constrain sequencing; only ExactDeliveryTime does.
type TimeWindow string

const (
	TimeWindowAny       TimeWindow = "ANY"
	TimeWindowMorning   TimeWindow = "MORNING"
	TimeWindowAfternoon TimeWindow = "AFTERNOON"
	TimeWindowEvening   TimeWindow = "EVENING"
)

// Priority is the delivery priority.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityNormal Priority = "NORMAL"
	PriorityLow    Priority = "LOW"
)

// Address represents a delivery address in the address book.
type Address struct {
	ID                  string
	FullAddress         string
	TimeWindow          TimeWindow
	ExactDeliveryTime   *string
	Priority            Priority
	SpecialInstructions *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasDeliveryTime reports whether the address carries a hard delivery time.
func (a *Address) HasDeliveryTime() bool {
	return a.ExactDeliveryTime != nil && *a.ExactDeliveryTime != ""
}
