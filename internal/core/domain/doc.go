// Package domain holds the core business types of the eRules engine:
// regulatory topics and their citation grammar, search results,
// regulatory chains and compliance reports. It has no dependencies on
// adapters or infrastructure.
package domain
