package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	mu     sync.Mutex
	loaded = make(map[string]any)

	dotenvOnce sync.Once
)

// Load parses environment variables into the provided configuration struct.
// Each configuration type is parsed at most once per process; subsequent
// calls for the same type return the cached value. The default .env file
// is loaded lazily before the first parse; a missing .env file is not an
// error.
//
// Example:
//
//	type SMTPConfig struct {
//		Host string `env:"SMTP_HOST,required"`
//		Port int    `env:"SMTP_PORT" envDefault:"587"`
//	}
//
//	var cfg SMTPConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(func() {
		// The .env file is a development convenience only.
		_ = godotenv.Load()
	})

	key := typeKey[T]()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := loaded[key]; ok {
		*v = cached.(T)
		return nil
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	// Store a copy so callers cannot mutate the cached value.
	loaded[key] = *v
	return nil
}

// MustLoad works like Load but panics on failure. Use for configuration
// the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(err)
	}
}

func typeKey[T any]() string {
	t := reflect.TypeFor[T]()
	return fmt.Sprintf("%s.%s", t.PkgPath(), t.Name())
}
