//nolint
package store

import "github.com/perfkit/dashboard"

// Move references for all storage types into this package
// for shorter names everywhere

type KVStore = dashboard.KVStore
type ReadOnlyKVStore = dashboard.ReadOnlyKVStore
type SetDeleter = dashboard.SetDeleter
type Iterator = dashboard.Iterator
type CommitKVStore = dashboard.CommitKVStore
