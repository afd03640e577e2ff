package vitrine

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-frame timing for the render phases. Only populated
// when Viewer.debug is true.
type debugStats struct {
	projectTime time.Duration
	sortTime    time.Duration
	submitTime  time.Duration
}

// debugLog prints timing and draw-call stats to stderr.
func (v *Viewer) debugLog(d debugStats, f frameStats) {
	if !v.debug {
		return
	}
	total := d.projectTime + d.sortTime + d.submitTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[vitrine] project: %v | sort: %v | submit: %v | total: %v\n",
		d.projectTime, d.sortTime, d.submitTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[vitrine] triangles: %d | culled: %d | draw calls: %d\n",
		f.triangles, f.culled, f.drawCalls)
}
