/*
Package runner executes a dag.Graph in-process.

A fixed pool of workers consumes nodes from a ready channel. A single coordinator
goroutine owns the run report: it records each result, resolves the edges leading
out of the finished node and decides, through the node's trigger rule, whether each
downstream node runs, is skipped or inherits an upstream failure.

# Usage

	r := runner.New(
		runner.WithWorkers(4),
		runner.WithLogger(logger),
	)

	report, err := r.Run(ctx, graph)
*/
package runner
