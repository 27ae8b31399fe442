// Package metrics exposes a Prometheus registry over Fiber.
package metrics
