package store

import (
	"io/fs"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	opTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stockdb_store_ops_total",
		Help: "Backend operations issued, by op (set/get/delete/list).",
	}, []string{"op"})

	opErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stockdb_store_op_errors_total",
		Help: "Backend operations that failed, by op.",
	}, []string{"op"})
)

func init() {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "stockdb_store_disk_bytes",
		Help: "Best-effort on-disk size of the store directory.",
	}, func() float64 { return float64(DiskUsage()) })
}

// DiskUsage returns the best-effort total size in bytes of the files under
// the DB directory, or zero when the store is not open.
func DiskUsage() uint64 {
	if db == nil || dbPath == "" {
		return 0
	}
	var total uint64
	_ = filepath.WalkDir(dbPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if fi, err := d.Info(); err == nil {
			total += uint64(fi.Size())
		}
		return nil
	})
	return total
}
