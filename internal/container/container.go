// Package container wires the application services together. Each Package
// function registers one concern with the injector; binaries compose the
// packages they need.
package container

import (
	"errors"
	"fmt"
	"time"
)

// Options holds the CLI flags shared by the binaries.
type Options struct {
	Port              int           `default:"8888"           help:"Port to listen on" short:"p"`
	IDLength          int           `default:"21"             help:"Length of generated note ids"`
	NoteTTL           time.Duration `default:"24h"            help:"Lifetime of unread notes"`
	SweepInterval     time.Duration `default:"5m"             help:"Time between expiry sweeps, 0 disables sweeping"`
	MaxNoteBytes      int           `default:"65536"          help:"Largest accepted note blob in bytes"`
	GlobalLimit       int           `default:"600"            help:"Requests allowed per client in the global window"`
	GlobalWindow      time.Duration `default:"1m"             help:"Window for the global limit"`
	WriteLimit        int           `default:"30"             help:"Note submissions allowed per client in the write window"`
	WriteWindow       time.Duration `default:"1m"             help:"Window for the write limit"`
	SlowdownThreshold int           `default:"100"            help:"In-window requests before responses slow down, 0 disables"`
	SlowdownWindow    time.Duration `default:"1m"             help:"Window for the slowdown counter"`
	SlowdownUnit      time.Duration `default:"100ms"          help:"Delay added per request beyond the slowdown threshold"`
	SlowdownMax       time.Duration `default:"2s"             help:"Cap on the slowdown delay"`
	RateLimitBackend  string        `default:"memory"         help:"Rate limit counter backend (memory or redis)"`
	RedisAddr         string        `default:"localhost:6379" help:"Redis server address" short:"r"`
	PostgresDSN       string        `default:""               help:"PostgreSQL DSN for the stats store, empty disables persistence"`
	LogFormat         string        `default:"console"        help:"Log output format (console or json)"`
}

// Validate checks option combinations the flag parser cannot.
func (o *Options) Validate() error {
	if o.IDLength < 2 || o.IDLength > 255 {
		return fmt.Errorf("id length must be between 2 and 255, got %d", o.IDLength)
	}

	if o.MaxNoteBytes <= 0 {
		return fmt.Errorf("max note bytes must be positive, got %d", o.MaxNoteBytes)
	}

	if o.GlobalLimit <= 0 || o.WriteLimit <= 0 {
		return errors.New("rate limits must be positive")
	}

	if o.GlobalWindow <= 0 || o.WriteWindow <= 0 {
		return errors.New("rate limit windows must be positive")
	}

	if o.RateLimitBackend != "memory" && o.RateLimitBackend != "redis" {
		return fmt.Errorf("unknown rate limit backend %q", o.RateLimitBackend)
	}

	if o.SweepInterval > 0 && o.NoteTTL <= 0 {
		return errors.New("note ttl must be positive when sweeping is enabled")
	}

	return nil
}
