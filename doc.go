/*

Package dashboard defines the document model shared by the migration engine
and its collaborators: dashboard documents, widgets and their results
configuration, and the key value store interfaces used to persist documents.

A Document keeps the raw JSON it was created from. Reads and writes address
nodes by dotted paths (children.0.children.2.datasource) and writes edit the
raw bytes in place, so sibling key order and every byte outside of the
written value stay as they were.

*/

package dashboard
