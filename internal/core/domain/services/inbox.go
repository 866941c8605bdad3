package services

import (
	"cmp"
	"slices"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// Alert is an order touched by an administrative override within the alert window.
type Alert struct {
	OrderID      kernel.UUID
	SerialNumber string
	CustomerName string
	Note         string
	Timestamp    time.Time
}

// Board is the read-only summary every role sees: how many orders wait on
// each role, how many live trips each driver holds, and the recent
// administrative alerts.
type Board struct {
	Counts      map[kernel.Role]int
	DriverTrips map[string]int
	Alerts      []Alert
	GeneratedAt time.Time
}

// Count returns the pending count for role, zero for roles without an inbox.
func (b Board) Count(role kernel.Role) int {
	return b.Counts[role]
}

// Trips returns the number of Assigned, PickedUp or Emergency trips for driverID.
func (b Board) Trips(driverID string) int {
	return b.DriverTrips[driverID]
}

// InboxAggregator projects a collection of orders into a Board.
//
// Business rules:
//   - An order counts for a role while its status is in the source set of
//     one of that role's transitions. The driver supervisor's OnHold count
//     requires an Emergency shipment.
//   - Driver trips are counted on non-terminal orders only.
//   - An alert is active while its override is younger than order.AlertWindow.
//
// The aggregator never mutates the orders it reads.
//
// Example usage:
//
//	board, err := services.NewInboxAggregator().Aggregate(orders, time.Now())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(board.Count(kernel.Finance))
type InboxAggregator struct{}

func NewInboxAggregator() InboxAggregator {
	return InboxAggregator{}
}

// Aggregate builds a Board at now. Alerts are ordered newest first.
func (a InboxAggregator) Aggregate(orders []*order.Order, now time.Time) (Board, error) {
	inboxRoles := order.InboxRoles()
	board := Board{
		Counts:      make(map[kernel.Role]int, len(inboxRoles)),
		DriverTrips: make(map[string]int),
		Alerts:      []Alert{},
		GeneratedAt: now,
	}
	for _, r := range inboxRoles {
		board.Counts[r] = 0
	}

	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return Board{}, err
		}

		for _, r := range inboxRoles {
			if o.AwaitsRole(r) {
				board.Counts[r]++
			}
		}

		if !o.Status().IsTerminal() {
			for _, s := range o.Shipments() {
				if s.Status().IsActive() {
					board.DriverTrips[s.DriverID()]++
				}
			}
		}

		if ae := o.AdminEmergency(); ae.IsRecent(now) {
			board.Alerts = append(board.Alerts, Alert{
				OrderID:      o.ID(),
				SerialNumber: o.SerialNumber(),
				CustomerName: o.CustomerName(),
				Note:         ae.Note,
				Timestamp:    ae.Timestamp,
			})
		}
	}

	slices.SortStableFunc(board.Alerts, func(x, y Alert) int {
		return cmp.Compare(y.Timestamp.UnixNano(), x.Timestamp.UnixNano())
	})
	return board, nil
}
