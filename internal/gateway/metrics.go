package gateway

import (
	"expvar"
	"net/http"
	"strconv"
	"sync"

	"github.com/felixge/httpsnoop"
)

// Metrics counts requests, responses and processing time
type Metrics struct {
	vars *expvar.Map

	requestsReceived *expvar.Int
	responsesSent    *expvar.Int
	processingTimeUs *expvar.Int
	byStatus         *expvar.Map
}

var publishOnce sync.Once

// NewMetrics creates a metrics set. The first set created is published
// under "gateway" in /debug/vars.
func NewMetrics() *Metrics {
	m := &Metrics{
		vars:             new(expvar.Map).Init(),
		requestsReceived: new(expvar.Int),
		responsesSent:    new(expvar.Int),
		processingTimeUs: new(expvar.Int),
		byStatus:         new(expvar.Map).Init(),
	}
	m.vars.Set("total_requests_received", m.requestsReceived)
	m.vars.Set("total_responses_sent", m.responsesSent)
	m.vars.Set("total_processing_time_μs", m.processingTimeUs)
	m.vars.Set("total_responses_sent_by_status", m.byStatus)

	publishOnce.Do(func() {
		expvar.Publish("gateway", m.vars)
	})
	return m
}

// Wrap records metrics for every request handled by next
func (m *Metrics) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requestsReceived.Add(1)

		snoop := httpsnoop.CaptureMetrics(next, w, r)

		m.responsesSent.Add(1)
		m.processingTimeUs.Add(snoop.Duration.Microseconds())
		m.byStatus.Add(strconv.Itoa(snoop.Code), 1)
	})
}

// RequestsReceived returns the request counter
func (m *Metrics) RequestsReceived() int64 {
	return m.requestsReceived.Value()
}

// ResponsesByStatus returns the response count for one status code
func (m *Metrics) ResponsesByStatus(code int) int64 {
	v, ok := m.byStatus.Get(strconv.Itoa(code)).(*expvar.Int)
	if !ok {
		return 0
	}
	return v.Value()
}
