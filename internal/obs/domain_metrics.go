package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CatalogSearchTotal counts catalog search outcomes.
	CatalogSearchTotal *prometheus.CounterVec
	// LedgerOpsTotal counts ledger mutations by operation and outcome.
	LedgerOpsTotal *prometheus.CounterVec
	// InvoicesRenderedTotal counts generated invoice documents.
	InvoicesRenderedTotal prometheus.Counter
	// CatalogSearchLatency records catalog round-trip latency in milliseconds.
	CatalogSearchLatency prometheus.Histogram
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CatalogSearchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_search_total",
			Help:      "Count of catalog search outcomes.",
		}, []string{"result"})
		LedgerOpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_ops_total",
			Help:      "Count of ledger mutations by operation and outcome.",
		}, []string{"op", "result"})
		InvoicesRenderedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_rendered_total",
			Help:      "Number of invoice documents generated.",
		})
		CatalogSearchLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_search_duration_ms",
			Help:      "Latency of catalog store round-trips in milliseconds.",
			Buckets:   latencyBuckets,
		})

		mustRegisterCollector(reg, CatalogSearchTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CatalogSearchTotal = v
			}
		})
		mustRegisterCollector(reg, LedgerOpsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				LedgerOpsTotal = v
			}
		})
		mustRegisterCollector(reg, InvoicesRenderedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				InvoicesRenderedTotal = v
			}
		})
		mustRegisterCollector(reg, CatalogSearchLatency, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				CatalogSearchLatency = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
