// Package metrics defines the observability hooks for asset path rewriting
// and the preview server, with a Prometheus implementation.
package metrics
