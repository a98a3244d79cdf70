package models

type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "New"
	OrderStatusPreparing  OrderStatus = "Preparing"
	OrderStatusCooking    OrderStatus = "Cooking"
	OrderStatusDelivering OrderStatus = "Delivering"
	OrderStatusDelivered  OrderStatus = "Delivered"
)

// OrderStatusList holds every status in lifecycle order.
var OrderStatusList = []OrderStatus{
	OrderStatusNew,
	OrderStatusPreparing,
	OrderStatusCooking,
	OrderStatusDelivering,
	OrderStatusDelivered,
}

var statusRank = map[OrderStatus]int{
	OrderStatusNew:        0,
	OrderStatusPreparing:  1,
	OrderStatusCooking:    2,
	OrderStatusDelivering: 3,
	OrderStatusDelivered:  4,
}

var statusMessages = map[OrderStatus]string{
	OrderStatusNew:        "Your order has been received",
	OrderStatusPreparing:  "Your order is being prepared",
	OrderStatusCooking:    "Your order is cooking",
	OrderStatusDelivering: "Your order is on its way",
	OrderStatusDelivered:  "Your order has been delivered",
}

func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]

	return ok
}

// Terminal reports whether no further transitions are allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered
}

// CanTransitionTo permits only the single forward step in the lifecycle.
// Skipping stages or moving backwards is rejected.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}

	to, ok := statusRank[next]
	if !ok {
		return false
	}

	return to == from+1
}

// Next returns the successor status, or false when s is terminal.
func (s OrderStatus) Next() (OrderStatus, bool) {
	rank, ok := statusRank[s]
	if !ok || rank+1 >= len(OrderStatusList) {
		return "", false
	}

	return OrderStatusList[rank+1], true
}

// NotificationMessage is the human-readable text pushed to the order's owner
// when the order enters this status.
func (s OrderStatus) NotificationMessage() string {
	if msg, ok := statusMessages[s]; ok {
		return msg
	}

	return "Your order has been updated"
}
