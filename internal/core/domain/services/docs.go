// Package services provides domain services that read across many order
// aggregates at once.
//
// The package includes:
//   - InboxAggregator: projects orders into per-role pending counts, per-driver
//     trip counts and recent administrative alerts
package services
