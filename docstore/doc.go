/*
Package docstore keeps dashboard documents in a key value store.

Bucket stores documents as they are. MigratingBucket is a schema aware
bucket: every document it returns or saves is migrated to the latest schema
version first, so callers never see a document written against an older
schema.
*/
package docstore
