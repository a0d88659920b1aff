package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scrapeJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrape_jobs_total",
			Help: "Total number of scrape jobs by result.",
		},
		[]string{"result"},
	)

	scrapeJobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scrape_job_duration_seconds",
			Help:    "Duration of full scrape jobs in seconds.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	storeScrapesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_scrapes_total",
			Help: "Total number of per-store scrape attempts by result.",
		},
		[]string{"store_id", "result"},
	)

	modsUpsertedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mods_upserted_total",
			Help: "Total number of mods written during scrape jobs.",
		},
	)
)

func observeScrapeJob(err error, elapsed time.Duration) {
	result := "success"
	if err != nil {
		result = "error"
	}
	scrapeJobsTotal.WithLabelValues(result).Inc()
	scrapeJobDuration.Observe(elapsed.Seconds())
}

func observeStoreScrape(storeID string, ok bool, modCount int) {
	result := "success"
	if !ok {
		result = "error"
	}
	storeScrapesTotal.WithLabelValues(storeID, result).Inc()
	if ok && modCount > 0 {
		modsUpsertedTotal.Add(float64(modCount))
	}
}
