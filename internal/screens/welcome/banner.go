package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/lumina-learn/lumina/internal/ui/theme"
)

const bannerArt = `
 ██╗     ██╗   ██╗███╗   ███╗██╗███╗   ██╗ █████╗
 ██║     ██║   ██║████╗ ████║██║████╗  ██║██╔══██╗
 ██║     ██║   ██║██╔████╔██║██║██╔██╗ ██║███████║
 ██║     ██║   ██║██║╚██╔╝██║██║██║╚██╗██║██╔══██║
 ███████╗╚██████╔╝██║ ╚═╝ ██║██║██║ ╚████║██║  ██║
 ╚══════╝ ╚═════╝ ╚═╝     ╚═╝╚═╝╚═╝  ╚═══╝╚═╝  ╚═╝`

const bannerCompact = "L U M I N A"

// Tagline is shown under the banner.
const Tagline = "Learning rhythm, gently observed."

// RenderBanner returns the LUMINA banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 54 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 54 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
