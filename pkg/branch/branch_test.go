package branch_test

import (
	"testing"

	"github.com/aretw0/easybake/pkg/branch"
	"github.com/aretw0/easybake/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		ingredients bool
		cookware    bool
		want        branch.Decision
		tasks       []domain.TaskID
	}{
		{true, true, branch.Bake, []domain.TaskID{domain.TaskPreheatOven, domain.TaskMixIngredients}},
		{false, false, branch.Replenish, []domain.TaskID{domain.TaskGoShopping, domain.TaskWashDishes}},
		{false, true, branch.ShopAndReturnCookware, []domain.TaskID{domain.TaskGoShopping, domain.TaskReturnCookware}},
		{true, false, branch.WashAndReturnIngredients, []domain.TaskID{domain.TaskWashDishes, domain.TaskReturnIngredients}},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			got := branch.Decide(tt.ingredients, tt.cookware)
			assert.Equal(t, tt.want, got)
			assert.ElementsMatch(t, tt.tasks, got.Tasks())

			// Deterministic
			assert.Equal(t, got, branch.Decide(tt.ingredients, tt.cookware))
			assert.Equal(t, got, branch.DecideOutcome(branch.Outcome{HaveIngredients: tt.ingredients, HaveCookware: tt.cookware}))
		})
	}
}

func TestDecision_EveryVariantSelectsTwoTasks(t *testing.T) {
	for _, d := range branch.Decisions {
		assert.Len(t, d.Tasks(), 2, d.String())
		assert.NotEqual(t, "unknown", d.String())
	}
	assert.Nil(t, branch.Decision(99).Tasks())
	assert.Equal(t, "unknown", branch.Decision(99).String())
}
