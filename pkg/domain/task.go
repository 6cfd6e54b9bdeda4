package domain

// TaskID names a node in the bake graph.
type TaskID string

const (
	TaskGetIngredients    TaskID = "get_ingredients"
	TaskGetCookware       TaskID = "get_cookware"
	TaskBranch            TaskID = "branch"
	TaskPreheatOven       TaskID = "preheat_oven"
	TaskMixIngredients    TaskID = "mix_ingredients"
	TaskBakeCake          TaskID = "bake_cake"
	TaskCoolCake          TaskID = "cool_cake"
	TaskGoShopping        TaskID = "go_shopping"
	TaskWashDishes        TaskID = "wash_dishes"
	TaskReturnIngredients TaskID = "return_ingredients"
	TaskReturnCookware    TaskID = "return_cookware"
)

// String implements fmt.Stringer.
func (t TaskID) String() string {
	return string(t)
}
