// Package kitchen implements the side-effect-only process steps of a bake:
// preheating, mixing, baking and cooling.
//
// The only state they share is the run's domain.Oven, which callers pass in
// explicitly. Simulated delays always run to completion.
package kitchen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/easybake/internal/logging"
	"github.com/aretw0/easybake/pkg/domain"
)

// Delays holds the simulated duration of each step.
type Delays struct {
	Preheat time.Duration `yaml:"preheat" mapstructure:"preheat"`
	Mix     time.Duration `yaml:"mix" mapstructure:"mix"`
	Bake    time.Duration `yaml:"bake" mapstructure:"bake"`
	Cool    time.Duration `yaml:"cool" mapstructure:"cool"`
}

// DefaultDelays returns the delays of a real kitchen.
func DefaultDelays() Delays {
	return Delays{
		Preheat: 45 * time.Second,
		Mix:     5 * time.Second,
		Bake:    60 * time.Second,
		Cool:    5 * time.Second,
	}
}

// Kitchen runs the process steps.
type Kitchen struct {
	delays Delays
	strict bool
	sleep  func(time.Duration)
	logger *slog.Logger
}

// Option configures the Kitchen.
type Option func(*Kitchen)

// WithDelays overrides DefaultDelays.
func WithDelays(d Delays) Option {
	return func(k *Kitchen) {
		k.delays = d
	}
}

// WithStrictBake makes Bake fail with domain.ErrTemperatureMismatch instead of
// silently skipping when the oven is at the wrong temperature.
func WithStrictBake(strict bool) Option {
	return func(k *Kitchen) {
		k.strict = strict
	}
}

// WithSleeper replaces time.Sleep for simulated delays.
func WithSleeper(sleep func(time.Duration)) Option {
	return func(k *Kitchen) {
		k.sleep = sleep
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(k *Kitchen) {
		k.logger = logger
	}
}

// New creates a Kitchen.
func New(opts ...Option) *Kitchen {
	k := &Kitchen{
		delays: DefaultDelays(),
		sleep:  time.Sleep,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Preheat brings a cold oven up to target.
// An oven already at or above target is left alone.
func (k *Kitchen) Preheat(ctx context.Context, oven *domain.Oven, target int) {
	if oven.Temperature >= target {
		k.logger.Info("The oven has already been preheated", "temperature", oven.Temperature)
		return
	}

	k.logger.Info(fmt.Sprintf("Preheating the oven to %d degrees", target))
	oven.State = domain.OvenPreheating
	k.sleep(k.delays.Preheat)
	oven.Temperature = target
	oven.State = domain.OvenHot
}

// Mix mixes the batter.
func (k *Kitchen) Mix(ctx context.Context) {
	k.logger.Info("Mix mix mix... Mix mix mix...")
	k.sleep(k.delays.Mix)
}

// Bake bakes the cake if the oven is exactly at target and reports whether it did.
// At any other temperature nothing happens; in strict mode that is an error.
func (k *Kitchen) Bake(ctx context.Context, oven *domain.Oven, target int) (bool, error) {
	if oven.Temperature != target {
		if k.strict {
			return false, fmt.Errorf("%w: oven at %d, recipe needs %d", domain.ErrTemperatureMismatch, oven.Temperature, target)
		}
		k.logger.Warn("Oven is not at the baking temperature, skipping bake",
			"temperature", oven.Temperature,
			"target", target,
		)
		return false, nil
	}

	k.logger.Info("Baking the cake now...")
	k.sleep(k.delays.Bake)
	k.logger.Info("Ding!!")
	return true, nil
}

// Cool lets the cake cool down.
func (k *Kitchen) Cool(ctx context.Context) {
	k.logger.Info("Cool cool cool... Cool cool cool...")
	k.sleep(k.delays.Cool)
}
