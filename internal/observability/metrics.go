// Package observability holds the Prometheus collectors and the tracer
// shared by the search engine, services and MCP adapter.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search outcome label values.
const (
	OutcomeComplete  = "complete"
	OutcomeTruncated = "truncated"
	OutcomeError     = "error"
)

// Metrics definitions
var (
	SearchPagesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "appsec_mcp_search_pages_fetched_total",
		Help: "Total number of remote pages fetched by paged searches.",
	}, []string{"source"})

	SearchOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "appsec_mcp_search_outcomes_total",
		Help: "Total number of paged searches by termination outcome.",
	}, []string{"source", "outcome"})

	SearchPageFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "appsec_mcp_search_page_fetch_seconds",
		Help:    "Latency of a single remote page fetch.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	ToolCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "appsec_mcp_tool_calls_total",
		Help: "Total number of MCP tool invocations by result.",
	}, []string{"tool", "result"})

	ToolCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "appsec_mcp_tool_call_seconds",
		Help:    "Time spent serving an MCP tool invocation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"tool"})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "appsec_mcp_cache_lookups_total",
		Help: "Total number of result cache lookups by result.",
	}, []string{"result"})

	PlatformRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "appsec_mcp_platform_requests_total",
		Help: "Total number of platform API requests by status class.",
	}, []string{"status"})
)
