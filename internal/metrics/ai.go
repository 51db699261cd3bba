package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var aiRequestTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "resumaker",
		Subsystem: "ai",
		Name:      "requests_total",
		Help:      "AI 增强请求总数。",
	},
	[]string{"action", "outcome"},
)

// ObserveAIRequest 记录一次 AI 增强请求的落定结果。
// outcome 取值：applied / discarded / failed。
func ObserveAIRequest(action, outcome string) {
	aiRequestTotal.WithLabelValues(action, outcome).Inc()
}
