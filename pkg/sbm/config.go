package sbm

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds the engine-scoped parameters of §6: EPS, BETA, GREEDY,
// N_CHECKS_PER_BLOCK, SIGMA and the random seed. Each engine owns its own
// Config so that concurrent engines on disjoint networks never share
// mutable parameters.
type Config struct {
	v *viper.Viper
}

// NewConfig returns a Config populated with the defaults named in §6.
func NewConfig() *Config {
	v := viper.New()

	v.SetDefault("inference.eps", 0.1)
	v.SetDefault("inference.beta", 1.5)
	v.SetDefault("inference.greedy", false)
	v.SetDefault("inference.n_checks_per_block", 5)
	v.SetDefault("inference.sigma", 2.0)
	v.SetDefault("inference.random_seed", time.Now().UnixNano())

	v.SetDefault("logging.level", "info")

	return &Config{v: v}
}

// LoadFromFile loads configuration overrides from path.
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// Eps is the proposal-smoothing constant of §4.4.3/§4.4.4.
func (c *Config) Eps() float64 { return c.v.GetFloat64("inference.eps") }

// Beta is the inverse-temperature used in acceptance (§4.4.4).
func (c *Config) Beta() float64 { return c.v.GetFloat64("inference.beta") }

// Greedy selects exhaustive candidate enumeration in agglomerative_merge.
func (c *Config) Greedy() bool { return c.v.GetBool("inference.greedy") }

// NChecksPerBlock is the number of sampled merge candidates per block when
// Greedy is false.
func (c *Config) NChecksPerBlock() int { return c.v.GetInt("inference.n_checks_per_block") }

// Sigma is the per-iteration block reduction factor used by collapse_blocks.
func (c *Config) Sigma() float64 { return c.v.GetFloat64("inference.sigma") }

// RandomSeed seeds the engine's Sampler.
func (c *Config) RandomSeed() int64 { return c.v.GetInt64("inference.random_seed") }

// LogLevel is the zerolog level name used by CreateLogger.
func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }

// Set allows dynamic configuration changes, mainly useful in tests.
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// CreateLogger builds a zerolog.Logger at the configured level, tagged
// "service":"sbm". The engine logs merge/sweep summaries and early
// termination at Info, and per-move detail at Debug.
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "sbm").Logger()
}
