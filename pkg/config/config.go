package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// cache stores parsed configuration structs keyed by their type name so that
// each configuration type is parsed from the environment exactly once.
type cache struct {
	mu     sync.RWMutex
	values map[string]any
}

var (
	store = &cache{values: make(map[string]any)}

	defaultEnvLoaded sync.Once
)

// LoadEnv loads one or more .env files into the process environment.
// Later files take precedence over earlier ones. Variables already present
// in the environment are never overridden.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrEnvFileNotFound, err)
	}
	return nil
}

// MustLoadEnv is LoadEnv that panics on failure. Use during startup when a
// missing env file means the service cannot run.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(fmt.Sprintf("config: failed to load env files: %v", err))
	}
}

// Load parses environment variables into the provided configuration struct.
// The first call for a given type parses the environment; subsequent calls
// return the cached value. A default .env file is loaded once, if present.
//
// Example:
//
//	type AuthConfig struct {
//		JWKSURL string `env:"AUTH_JWKS_URL,required"`
//		Issuer  string `env:"AUTH_ISSUER,required"`
//	}
//
//	var cfg AuthConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		// The .env file is optional; ignore the error if it is absent.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	key := typeName[T]()

	store.mu.RLock()
	if cached, ok := store.values[key]; ok {
		*v = cached.(T)
		store.mu.RUnlock()
		return nil
	}
	store.mu.RUnlock()

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if cached, ok := store.values[key]; ok {
		// Another goroutine parsed the same type first; use its result so
		// all callers observe a single consistent value.
		*v = cached.(T)
		return nil
	}
	store.values[key] = *v
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: failed to load required configuration: %v", err))
	}
}

// ForceReload re-parses the environment for the given type, replacing any
// cached value. Intended for tests that mutate the environment.
func ForceReload[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	store.mu.Lock()
	store.values[typeName[T]()] = *v
	store.mu.Unlock()
	return nil
}

// ResetCache drops all cached configuration values. Intended for tests.
func ResetCache() {
	store.mu.Lock()
	store.values = make(map[string]any)
	store.mu.Unlock()
}

// typeName returns a string identifier for the generic type T.
func typeName[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return fmt.Sprintf("%T", *new(T))
	}
	return t.String()
}
