/*
Package schema implements load-time structural validation of quiz graphs.

Validation happens once, before a quiz is allowed to run. It checks schema
conformance of every node, question, transition and condition, id uniqueness,
reference integrity (no dangling node or question ids), option value
uniqueness, the single-start invariant, and reachability from the start node.

All failures are accumulated and returned together as an *AggregateError of
*SchemaError diagnostics, so authors fix a broken quiz in one pass instead of
one error at a time.
*/
package schema
