package store

import (
	"fmt"

	"github.com/tailored-agentic-units/statestore/observability"
)

const defaultName = "store"

// Config holds the declarative part of store construction. Observer names an
// entry in the observability registry ("noop", "slog", or a custom
// registration).
type Config struct {
	Name     string `json:"name,omitempty"`
	Observer string `json:"observer,omitempty"`
}

// DefaultConfig returns a Config with a silent observer.
func DefaultConfig() Config {
	return Config{
		Name:     defaultName,
		Observer: "noop",
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Name != "" {
		c.Name = source.Name
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// Option configures store construction.
type Option[S any] func(*options[S])

type options[S any] struct {
	name         string
	observer     observability.Observer
	preloaded    S
	hasPreloaded bool
	enhancers    []Enhancer[S]
	err          error
}

func newOptions[S any](opts []Option[S]) *options[S] {
	o := &options[S]{
		name:     defaultName,
		observer: observability.NoOpObserver{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// forward carries everything except enhancers into the creator handed to an
// enhancer, so the wrapped construction builds a plain engine.
func (o *options[S]) forward() Option[S] {
	name, observer := o.name, o.observer
	preloaded, hasPreloaded := o.preloaded, o.hasPreloaded
	return func(dst *options[S]) {
		dst.name = name
		dst.observer = observer
		if hasPreloaded {
			dst.preloaded = preloaded
			dst.hasPreloaded = true
		}
	}
}

// WithPreloadedState sets the state the reducer sees on the init dispatch.
// Without it the reducer starts from the zero value of S.
func WithPreloadedState[S any](state S) Option[S] {
	return func(o *options[S]) {
		o.preloaded = state
		o.hasPreloaded = true
	}
}

// WithEnhancer wraps store construction. At most one enhancer may be given;
// compose several with compose.Compose before passing them in.
func WithEnhancer[S any](enhancer Enhancer[S]) Option[S] {
	return func(o *options[S]) {
		o.enhancers = append(o.enhancers, enhancer)
	}
}

// WithObserver sets the observer receiving store events. Nil restores the
// no-op observer.
func WithObserver[S any](observer observability.Observer) Option[S] {
	return func(o *options[S]) {
		if observer == nil {
			observer = observability.NoOpObserver{}
		}
		o.observer = observer
	}
}

// WithName sets the store name reported in events.
func WithName[S any](name string) Option[S] {
	return func(o *options[S]) {
		if name != "" {
			o.name = name
		}
	}
}

// WithConfig applies a Config, resolving its observer through the
// observability registry. An unknown observer name fails construction.
func WithConfig[S any](cfg Config) Option[S] {
	return func(o *options[S]) {
		if cfg.Name != "" {
			o.name = cfg.Name
		}
		if cfg.Observer == "" {
			return
		}
		observer, err := observability.GetObserver(cfg.Observer)
		if err != nil {
			o.err = fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			return
		}
		o.observer = observer
	}
}
