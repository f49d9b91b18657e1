// Package domain defines the core domain models for statebag.
//
// Domain models are pure value objects without any IO dependencies
// or framework coupling. This package contains:
//
//   - Value: tagged logical value (null, bool, int, float, string, list, map)
//   - StoreKind: nominal identifier of a store adapter type
//   - Errors: domain-specific error definitions
//
// The raw (wire) form of a Value is a plain string produced by the
// codec package; domain itself never serializes.
package domain
