package vitrine

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// drawFPSOverlay prints frame timing and render counters in the top-left
// corner. Enabled by RunConfig.ShowFPS.
func drawFPSOverlay(screen *ebiten.Image, v *Viewer) {
	st := v.frameStats
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"FPS: %.1f\nTPS: %.1f\ntris: %d  culled: %d  draws: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		st.triangles, st.culled, st.drawCalls))
}
