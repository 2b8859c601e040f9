// Package id provides unique identifier generation utilities.
//
//   - UUID: random UUID v4, used for rule IDs
//   - TimeOrdered: UUID v7, sortable by creation time, used for exchanges
//   - Short: 16-character hex IDs for user-facing contexts
package id
