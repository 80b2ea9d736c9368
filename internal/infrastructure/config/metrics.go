package config

import (
	"fmt"
	"net"
	"strconv"
)

// MetricsConfig controls the Prometheus endpoint of the daemon
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`
	Host    string `mapstructure:"host"`
	Path    string `mapstructure:"path" validate:"omitempty,startswith=/"`
}

// Address is the listen address of the metrics server
func (c MetricsConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Endpoint is the URL a scraper would use
func (c MetricsConfig) Endpoint() string {
	return fmt.Sprintf("http://%s%s", c.Address(), c.Path)
}
