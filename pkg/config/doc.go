// Package config provides a type-safe, generic and cached way to load
// application configuration from environment variables.
//
// It wraps popular libraries `github.com/joho/godotenv` and
// `github.com/caarlos0/env/v11` to deliver a convenient API that:
//
//   - Loads values from one or multiple `.env` files (fallback to the default
//     `.env` in the current working directory).
//   - Parses the environment into any Go struct using field tags.
//   - Caches each successfully loaded configuration type so it is only parsed
//     once for the lifetime of the process.
//   - Exposes helpers that panic on failure (`MustLoadEnv`, `MustLoad`) for
//     configurations the process cannot start without.
//   - Parses prefixed variables (`LoadWithPrefix`) so one struct type can
//     describe several sink instances.
//
// # Architecture
//
// Internally the package keeps a singleton `configCache` that stores parsed
// struct copies keyed by their fully-qualified type name. Each key also holds a
// `sync.Once` instance guaranteeing the expensive parsing work is executed at
// most once per configuration type even when accessed from multiple goroutines
// concurrently. `LoadWithPrefix` bypasses the cache.
//
// # Usage
//
// First, create a struct describing your configuration and annotate its fields
// with `env` tags:
//
//	type RedisConfig struct {
//	    ConnectionURL  string        `env:"REDIS_URL,required"`
//	    RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
//	    ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"5s"`
//	}
//
// Load the default `.env` file (optional) then populate the struct:
//
//	import "github.com/dmitrymomot/batchkit/pkg/config"
//
//	func main() {
//	    // Optionally load one or many custom .env files before parsing.
//	    if err := config.LoadEnv("./config/.env" /* more files ... */); err != nil {
//	        log.Fatalf("loading env: %v", err)
//	    }
//
//	    var redis RedisConfig
//	    if err := config.Load(&redis); err != nil {
//	        log.Fatalf("parsing env: %v", err)
//	    }
//
//	    // redis is now populated and cached for future calls.
//	}
//
// Two sinks of the same kind read distinct variables through a prefix:
//
//	var primary, cache RedisConfig
//	config.LoadWithPrefix(&primary, "PRIMARY_")
//	config.LoadWithPrefix(&cache, "CACHE_")
//
// # Error Handling
//
// The package defines sentinel errors that can be compared with `errors.Is`:
// ErrParsingConfig, ErrLoadingEnvFile, ErrConfigNotLoaded, and ErrNilPointer.
package config
