package domain

// OvenState is a position in the preheat state machine.
type OvenState string

const (
	OvenCold       OvenState = "COLD"       // Initial, below any recipe temperature
	OvenPreheating OvenState = "PREHEATING" // Transient, only observable during a preheat
	OvenHot        OvenState = "HOT"        // At the target temperature
)

// Oven holds the temperature of a single run.
// It is not safe for concurrent use; the bake graph only lets one step touch it at a time.
type Oven struct {
	Temperature int
	State       OvenState
}

// NewOven returns a cold oven at RoomTemperature.
func NewOven() *Oven {
	return &Oven{
		Temperature: RoomTemperature,
		State:       OvenCold,
	}
}
