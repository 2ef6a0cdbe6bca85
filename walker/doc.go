/*
Package walker locates widget nodes inside of a dashboard document.

A document is a tree of containers. The document root is a container, and so
is every object carrying one of the container keys (by default "children"
and "tabs"). Each container key must hold an array. An object element of
such an array that carries no container key is a widget.

Widgets are always visited depth first, in the order they appear in the
document. Some schema versions assign defaults that depend on this order, so
it is part of the contract.

A walk can be scoped to a single container by passing a Path. A path that
cannot be resolved fails with errors.ErrStructure, so that a missing container
is never confused with an empty one.
*/
package walker
