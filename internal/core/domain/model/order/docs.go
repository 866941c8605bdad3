// Package order models the fulfillment order aggregate: the role-gated status
// machine, splitting item quantities into driver trips, driver emergencies and
// administrative overrides, plus the append-only audit trail.
//
// The package includes:
//   - Order: the aggregate root; all mutations go through its methods
//   - Status and the transition table keyed by (role, action)
//   - Item: catalog lines capped by their original quantity
//   - Shipment: a driver trip with its own Assigned/PickedUp/Delivered/Emergency states
//   - DeriveStatus: the pure recomputation of shipment-driven status
//   - AdminEmergency and the cancel/transfer/edit overrides
//   - Filter and Draft for listings and assistant-extracted input
//
// Key business rules:
//   - Σ shipped quantity of an item never exceeds the item's quantity
//   - 0 ≤ quantity ≤ originalQuantity for every item
//   - a rejected operation leaves the order untouched and writes no history
//   - overrides need a justification and no source state
//
// Methods take the current time explicitly so callers and tests control the clock.
package order
