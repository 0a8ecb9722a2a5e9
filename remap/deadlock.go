package remap

import "github.com/sasha-s/go-deadlock"

// deadlockRWMutex is sync.RWMutex with deadlock detection. It is used
// for the one piece of core state that is ever mutated after
// construction (SimpleMappingLookup's maps during their build phase);
// see the concurrency note on SimpleMappingLookup.
type deadlockRWMutex = deadlock.RWMutex
