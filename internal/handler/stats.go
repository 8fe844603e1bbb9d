package handler

import "net/http"

// GetStats handles GET /api/stats. It surfaces the connection pool gauges and
// the view cache's hit/miss counters for operational visibility.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"database": s.pool.PoolStats(),
		"cache":    s.agg.CacheStats(),
	})
}
