package sbm

import (
	"github.com/rs/zerolog"

	"github.com/gilchrisn/sbm-block-inference/pkg/sampler"
)

// Engine drives inference over a Network: proposing node moves, evaluating
// Hastings acceptance, running MCMC sweeps, and executing the
// agglomerative collapse schedule. An Engine is single-threaded and
// non-blocking - no operation has a suspension point, and the Sampler it
// owns is the sole source of nondeterminism in every call it makes.
type Engine struct {
	net *Network
	rng *sampler.Sampler
	cfg *Config
	log zerolog.Logger
}

// NewEngine returns an Engine operating on net, configured by cfg (or
// NewConfig defaults if cfg is nil). Multiple Engines may run concurrently
// as long as each owns a disjoint Network - this Engine's Sampler and
// Config are exclusively its own.
func NewEngine(net *Network, cfg *Config) *Engine {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &Engine{
		net: net,
		rng: sampler.New(cfg.RandomSeed()),
		cfg: cfg,
		log: cfg.CreateLogger(),
	}
}

// Network returns the Network this Engine operates on.
func (e *Engine) Network() *Network { return e.net }

// Config returns this Engine's configuration.
func (e *Engine) Config() *Config { return e.cfg }

// Entropy delegates to the underlying Network (§4.4.1); it is exposed on
// Engine too since every other inference operation is a method here.
func (e *Engine) Entropy(level int) (float64, error) { return e.net.Entropy(level) }
