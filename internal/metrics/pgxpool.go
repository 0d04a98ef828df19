package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterPgxPoolMetrics publishes the pool's connection counters as
// gauges, sampled from pool.Stat on every scrape.
func RegisterPgxPoolMetrics(pool *pgxpool.Pool) {
	counters := []struct {
		name string
		help string
		read func(*pgxpool.Stat) int32
	}{
		{"pgxpool_acquired_conns", "Connections currently checked out of the pool", (*pgxpool.Stat).AcquiredConns},
		{"pgxpool_max_conns", "Configured upper bound of the pool", (*pgxpool.Stat).MaxConns},
		{"pgxpool_total_conns", "Open connections, acquired plus idle", (*pgxpool.Stat).TotalConns},
		{"pgxpool_idle_conns", "Connections sitting idle in the pool", (*pgxpool.Stat).IdleConns},
	}

	for _, c := range counters {
		read := c.read
		prometheus.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: c.name,
			Help: c.help,
		}, func() float64 {
			return float64(read(pool.Stat()))
		}))
	}
}
