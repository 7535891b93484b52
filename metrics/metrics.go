package metrics

import (
	"fmt"

	"github.com/DataDog/datadog-go/v5/statsd"
)

// Provider define o contrato para envio de métricas.
// Isso permite trocar Datadog por outro backend sem alterar os chamadores.
type Provider interface {
	Count(name string, value float64, tags []string) error
	Gauge(name string, value float64, tags []string) error
	Histogram(name string, value float64, tags []string) error
}

// NoopProvider é um placeholder para quando métricas estão desabilitadas.
type NoopProvider struct{}

func (n *NoopProvider) Count(name string, value float64, tags []string) error     { return nil }
func (n *NoopProvider) Gauge(name string, value float64, tags []string) error     { return nil }
func (n *NoopProvider) Histogram(name string, value float64, tags []string) error { return nil }

// DatadogProvider adapta a lib oficial do Datadog para a interface Provider.
type DatadogProvider struct {
	client *statsd.Client
}

// NewDatadog conecta no agente StatsD do Datadog no endereço informado.
func NewDatadog(addr, namespace string) (*DatadogProvider, error) {
	opts := []statsd.Option{
		statsd.WithNamespace(namespace),
	}

	client, err := statsd.New(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("metrics: failed to connect to datadog statsd: %w", err)
	}

	return &DatadogProvider{client: client}, nil
}

func (d *DatadogProvider) Count(name string, value float64, tags []string) error {
	return d.client.Count(name, int64(value), tags, 1)
}

func (d *DatadogProvider) Gauge(name string, value float64, tags []string) error {
	return d.client.Gauge(name, value, tags, 1)
}

func (d *DatadogProvider) Histogram(name string, value float64, tags []string) error {
	return d.client.Histogram(name, value, tags, 1)
}
