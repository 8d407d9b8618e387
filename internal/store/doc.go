// Package store defines the persistence interfaces consumed by the service
// and task layers, together with the sentinel errors implementations must
// return. The durable backend is collection-granular: each entity type maps
// to one collection that is replaced atomically as a whole on write.
// Concurrent read-modify-write cycles against the same collection from
// different callers can therefore lose updates; callers that need the cycle
// to be exclusive use the Mutate/Adjust operations, which hold the
// collection lock across it.
package store
