/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing task graphs.

It allows developers to define workflows using a type-safe, fluent builder pattern instead of
wiring dag.Node values by hand.

Example usage:

	b := dsl.New()

	b.Add("fetch").Do(fetch)
	b.Add("decide").Branch(decide).After("fetch")
	b.Add("left").Do(left).After("decide")
	b.Add("right").Do(right).After("decide").Retry(1, 5*time.Second)

	graph, err := b.Build()
*/
package dsl
