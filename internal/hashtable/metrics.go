package hashtable

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	tablePrometheusMetrics sync.Once

	tableInsertProbes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "openaddr",
			Subsystem: "hashtable",
			Name:      "insert_probes",
			Help:      "Number of probes it took to place a new key",
			Buckets:   prometheus.ExponentialBuckets(1.0, 2.0, 12),
		},
		[]string{"name"},
	)
	tableInserts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "openaddr",
			Subsystem: "hashtable",
			Name:      "inserts_total",
			Help:      "Number of Insert() calls, by outcome",
		},
		[]string{"name", "outcome"},
	)
	tableSearches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "openaddr",
			Subsystem: "hashtable",
			Name:      "searches_total",
			Help:      "Number of Search() calls, by outcome",
		},
		[]string{"name", "outcome"},
	)
	tableLoadFactor = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "openaddr",
			Subsystem: "hashtable",
			Name:      "load_factor",
			Help:      "Ratio of stored keys to table capacity",
		},
		[]string{"name"},
	)
)

// Instrumented forwards Insert and Search to a Table and records their
// outcomes as Prometheus metrics labeled with the table's name.
type Instrumented[K Key[K]] struct {
	table *Table[K]

	insertProbes    prometheus.Observer
	insertInserted  prometheus.Counter
	insertDuplicate prometheus.Counter
	insertFull      prometheus.Counter
	searchFound     prometheus.Counter
	searchNotFound  prometheus.Counter
	loadFactor      prometheus.Gauge
}

func NewInstrumented[K Key[K]](table *Table[K], name string) *Instrumented[K] {
	tablePrometheusMetrics.Do(func() {
		prometheus.MustRegister(tableInsertProbes)
		prometheus.MustRegister(tableInserts)
		prometheus.MustRegister(tableSearches)
		prometheus.MustRegister(tableLoadFactor)
	})

	return &Instrumented[K]{
		table: table,

		insertProbes:    tableInsertProbes.WithLabelValues(name),
		insertInserted:  tableInserts.WithLabelValues(name, "inserted"),
		insertDuplicate: tableInserts.WithLabelValues(name, "duplicate"),
		insertFull:      tableInserts.WithLabelValues(name, "full"),
		searchFound:     tableSearches.WithLabelValues(name, "found"),
		searchNotFound:  tableSearches.WithLabelValues(name, "not_found"),
		loadFactor:      tableLoadFactor.WithLabelValues(name),
	}
}

func (m *Instrumented[K]) Insert(key K) (int, error) {
	before := m.table.Size()
	slot, err := m.table.Insert(key)
	if err != nil {
		if errors.Is(err, ErrTableFull) {
			m.insertFull.Inc()
		}
		return slot, err
	}

	if m.table.Size() == before {
		m.insertDuplicate.Inc()
		return slot, nil
	}

	m.insertInserted.Inc()
	m.insertProbes.Observe(float64(m.table.At(slot).Probes()))
	m.loadFactor.Set(m.table.LoadFactor())
	return slot, nil
}

func (m *Instrumented[K]) Search(key K) *Entry[K] {
	_, entry := m.Locate(key)
	return entry
}

func (m *Instrumented[K]) Locate(key K) (int, *Entry[K]) {
	slot, entry := m.table.Locate(key)
	if entry == nil {
		m.searchNotFound.Inc()
	} else {
		m.searchFound.Inc()
	}
	return slot, entry
}

func (m *Instrumented[K]) Table() *Table[K] {
	return m.table
}
