// Package jsonfile implements the store interfaces over one JSON document
// per collection. Writes go to a temp file in the same directory and are
// atomically renamed into place, so readers never observe a partial write.
// Atomicity is collection-granular: a per-collection mutex serializes every
// read-modify-write cycle within this process.
package jsonfile
