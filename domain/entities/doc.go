// Package entities holds the values passed between the host and a styling
// module: opaque handles, callback ids, memory regions, encoded strings and
// result headers.
package entities
