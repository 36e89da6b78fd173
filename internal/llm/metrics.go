package llm

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// PromObserver records LLM calls as Prometheus metrics.
type PromObserver struct {
	calls     *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	tokens    *prometheus.CounterVec
	truncated prometheus.Counter
}

// NewPromObserver registers the LLM collectors with reg.
func NewPromObserver(reg prometheus.Registerer) (*PromObserver, error) {
	o := &PromObserver{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "truebid",
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "LLM calls by task, provider and outcome.",
		}, []string{"task", "provider", "success", "error_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "truebid",
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "LLM call latency.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"task", "provider"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "truebid",
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Tokens consumed by direction.",
		}, []string{"task", "direction"}),
		truncated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "truebid",
			Subsystem: "llm",
			Name:      "truncated_responses_total",
			Help:      "Responses that stopped on the output length limit.",
		}),
	}
	for _, c := range []prometheus.Collector{o.calls, o.latency, o.tokens, o.truncated} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *PromObserver) OnCallComplete(event LLMCallEvent) {
	task := string(event.Task)
	o.calls.WithLabelValues(task, event.Provider, strconv.FormatBool(event.Success), event.ErrorCode).Inc()
	o.latency.WithLabelValues(task, event.Provider).Observe(float64(event.LatencyMs) / 1000)
	if event.Success {
		o.tokens.WithLabelValues(task, "input").Add(float64(event.InputTokens))
		o.tokens.WithLabelValues(task, "output").Add(float64(event.OutputTokens))
	}
	if event.StopReason == "max_tokens" || event.StopReason == "length" {
		o.truncated.Inc()
	}
}
