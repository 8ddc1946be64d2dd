// Package metrics exposes Prometheus counters for keychain query outcomes.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	kq "github.com/systmms/keychainquery/pkg/keychainquery"
)

// Recorder counts classified results and raw store statuses.
type Recorder struct {
	results  *prometheus.CounterVec
	statuses *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them with reg. A nil
// reg leaves them unregistered, which is what tests want.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kcquery_results_total",
			Help: "Classified keychain query results by operation and result kind",
		}, []string{"op", "kind"}),
		statuses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kcquery_store_status_total",
			Help: "Raw store status codes by operation",
		}, []string{"op", "status"}),
	}
	if reg == nil {
		return r, nil
	}
	for _, c := range []prometheus.Collector{r.results, r.statuses} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

var (
	defaultOnce     sync.Once
	defaultRecorder *Recorder
)

// Default returns a recorder registered once with the default Prometheus
// registry.
func Default() *Recorder {
	defaultOnce.Do(func() {
		r, err := NewRecorder(prometheus.DefaultRegisterer)
		if err != nil {
			// already registered elsewhere in the process
			r, _ = NewRecorder(nil)
		}
		defaultRecorder = r
	})
	return defaultRecorder
}

// ObserveResult counts one classified result. Safe on a nil recorder.
func (r *Recorder) ObserveResult(op string, res kq.Result) {
	if r == nil || res == nil {
		return
	}
	r.results.WithLabelValues(op, res.Kind().String()).Inc()
}

// ObserveStatus counts one raw store status. Safe on a nil recorder.
func (r *Recorder) ObserveStatus(op string, status kq.Status) {
	if r == nil {
		return
	}
	r.statuses.WithLabelValues(op, status.Name()).Inc()
}

// ResultCounter returns the counter for (op, kind), for tests.
func (r *Recorder) ResultCounter(op string, kind kq.Kind) prometheus.Counter {
	return r.results.WithLabelValues(op, kind.String())
}

// StatusCounter returns the counter for (op, status), for tests.
func (r *Recorder) StatusCounter(op string, status kq.Status) prometheus.Counter {
	return r.statuses.WithLabelValues(op, status.Name())
}

// WriteTextfile writes the metrics gathered by g to path in the text
// exposition format, for the node_exporter textfile collector. A nil g
// means the default gatherer.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return prometheus.WriteToTextfile(path, g)
}
