package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"chatwidget/internal/models"
)

var (
	queryLookupDesc = prometheus.NewDesc(
		"chatwidget_query_lookups_total",
		"Total answered queries by matched keyword and outcome",
		[]string{"keyword", "outcome"},
		nil,
	)

	askRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chatwidget_ask_requests_total",
		Help: "Total /api/ask requests by answer source and status",
	}, []string{"source", "status"})
)

// LookupStore persists query lookup counts.
type LookupStore interface {
	IncrementQueryLookup(ctx context.Context, keyword, outcome string) error
	GetAllQueryLookups(ctx context.Context) ([]models.QueryLookup, error)
}

// QueryCollector is a custom Prometheus collector that reads query lookup
// counts from the store on each scrape.
type QueryCollector struct {
	store LookupStore
}

// NewQueryCollector creates a collector over store.
func NewQueryCollector(store LookupStore) *QueryCollector {
	return &QueryCollector{store: store}
}

// Describe sends the metric descriptor to the channel.
func (c *QueryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- queryLookupDesc
}

// Collect queries the store for all lookups and emits them as counters.
func (c *QueryCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lookups, err := c.store.GetAllQueryLookups(ctx)
	if err != nil {
		slog.Error("failed to collect query lookup metrics", "error", err)
		return
	}
	for _, l := range lookups {
		ch <- prometheus.MustNewConstMetric(
			queryLookupDesc,
			prometheus.CounterValue,
			float64(l.Count),
			l.Keyword,
			l.Outcome,
		)
	}
}

// Recorder writes query lookups to the store on a bounded worker pool so
// request handlers never wait on the database.
type Recorder struct {
	store   LookupStore
	pool    *ants.Pool
	timeout time.Duration
}

// NewRecorder creates a recorder with at most size concurrent writes.
// Submissions beyond that are dropped.
func NewRecorder(store LookupStore, size int) (*Recorder, error) {
	if size < 1 {
		size = 1
	}
	pool, err := ants.NewPool(size, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	return &Recorder{store: store, pool: pool, timeout: 5 * time.Second}, nil
}

// Record asynchronously records a lookup outcome.
func (r *Recorder) Record(keyword, outcome string) {
	err := r.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.store.IncrementQueryLookup(ctx, keyword, outcome); err != nil {
			slog.Error("failed to record query lookup", "keyword", keyword, "outcome", outcome, "error", err)
		}
	})
	if err != nil {
		slog.Warn("query lookup dropped", "keyword", keyword, "outcome", outcome, "error", err)
	}
}

// Close waits for in-flight writes and releases the pool.
func (r *Recorder) Close() error {
	return r.pool.ReleaseTimeout(5 * time.Second)
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// Init registers the custom collector and initializes the global recorder.
// Must be called once at startup; later calls are no-ops.
func Init(store LookupStore) error {
	var err error
	recorderOnce.Do(func() {
		var r *Recorder
		r, err = NewRecorder(store, 8)
		if err != nil {
			return
		}
		recorder = r
		prometheus.MustRegister(NewQueryCollector(store))
	})
	return err
}

// Shutdown flushes the global recorder.
func Shutdown() {
	if recorder == nil {
		return
	}
	if err := recorder.Close(); err != nil {
		slog.Warn("query lookup recorder did not drain", "error", err)
	}
}

// RecordQueryLookup asynchronously records a lookup outcome. It is a no-op
// until Init has been called.
func RecordQueryLookup(keyword, outcome string) {
	if recorder == nil {
		return
	}
	recorder.Record(keyword, outcome)
}

// ObserveAsk counts an /api/ask request.
func ObserveAsk(source, status string) {
	askRequests.WithLabelValues(source, status).Inc()
}
