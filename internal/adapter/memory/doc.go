// Package memory holds mutex-guarded implementations of the domain
// repositories. They back the "memory" storage driver and the service tests.
package memory
