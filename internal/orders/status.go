package orders

type Status string

const (
	StatusPending        Status = "PENDING"
	StatusConfirmed      Status = "CONFIRMED"
	StatusReadyForPickup Status = "READY_FOR_PICKUP"
	StatusPickedUp       Status = "PICKED_UP"
	StatusDelivering     Status = "DELIVERING"
	StatusDelivered      Status = "DELIVERED"
	StatusCanceled       Status = "CANCELED"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:        {StatusConfirmed: true, StatusCanceled: true},
	StatusConfirmed:      {StatusReadyForPickup: true, StatusCanceled: true},
	StatusReadyForPickup: {StatusPickedUp: true, StatusDelivering: true, StatusCanceled: true},
	StatusPickedUp:       {StatusDelivering: true, StatusCanceled: true},
	StatusDelivering:     {StatusDelivered: true, StatusCanceled: true},
	StatusDelivered:      {},
	StatusCanceled:       {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCanceled
}

func (s Status) Known() bool {
	_, ok := validNext[s]
	return ok
}
