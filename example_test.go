package easybake_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aretw0/easybake"
	"github.com/aretw0/easybake/pkg/domain"
	"github.com/aretw0/easybake/pkg/runner"
)

// ExampleNew_memory bakes two cakes from an in-memory kitchen seeded for two batches.
// The third run finds the pantry empty and goes shopping.
func ExampleNew_memory() {
	k, err := easybake.New(
		easybake.WithSleeper(func(time.Duration) {}),
		easybake.WithRunnerOptions(runner.WithRetryDelay(0)),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if err := k.Seed(ctx, 2); err != nil {
		log.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		report, err := k.Bake(ctx)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s baked=%v\n", report.Decision, report.State(domain.TaskBakeCake) == runner.StateSuccess)
	}
	// Output:
	// bake baked=true
	// bake baked=true
	// shop_and_return_cookware baked=false
}
