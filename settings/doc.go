/*
Package settings implements the application wide settings bag: the default
query location offered to new dashboards, the analytics key and the result
cache duration.

Settings are kept in the database as a singleton under the "_c:settings" key.
An initial configuration can be read from a YAML or JSON file. Updates are
partial: only fields that are present in an update are changed.
*/
package settings
