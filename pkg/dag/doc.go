/*
Package dag holds the static task graph executed by the runner.

A Graph is a set of Nodes connected by upstream edges. Task nodes run an Action and
may return a value that downstream tasks read from the RunContext. Branch nodes
return a Selection; their direct downstream nodes that are not selected are skipped.

Each node has a TriggerRule deciding, once every upstream node is finished, whether
it runs, is skipped, or inherits an upstream failure.
*/
package dag
