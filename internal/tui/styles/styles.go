package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/storyreel/internal/models"
)

// Color palette - lavender theme
var (
	// Primary colors
	ColorPrimary    = lipgloss.Color("#B794F4") // Lavender
	ColorSecondary  = lipgloss.Color("#9F7AEA") // Darker lavender
	ColorAccent     = lipgloss.Color("#E9D8FD") // Light lavender
	ColorBackground = lipgloss.Color("#1A1A2E") // Dark background
	ColorSurface    = lipgloss.Color("#2D2D44") // Surface color
	ColorSurfaceAlt = lipgloss.Color("#3D3D5C") // Alternate surface

	// Text colors
	ColorText        = lipgloss.Color("#FAFAFA") // Primary text
	ColorTextMuted   = lipgloss.Color("#A0A0B0") // Muted text
	ColorTextDim     = lipgloss.Color("#6B6B80") // Dim text
	ColorTextInverse = lipgloss.Color("#1A1A2E") // Inverse text

	// State colors
	ColorSuccess = lipgloss.Color("#68D391") // Green
	ColorWarning = lipgloss.Color("#F6E05E") // Yellow
	ColorError   = lipgloss.Color("#FC8181") // Red
	ColorInfo    = lipgloss.Color("#63B3ED") // Blue
)

// Styles for various UI components
var (
	// Header styles
	StyleHeaderTitle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorText).
				Background(ColorPrimary).
				Padding(0, 1)

	StyleHeaderGradient = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorText).
				Background(ColorPrimary).
				Padding(0, 2)

	// Scene card styles
	StyleSceneCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSurfaceAlt).
			Padding(0, 1)

	StyleSceneCardSelected = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Padding(0, 1)

	StyleSceneTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	StyleCaption = lipgloss.NewStyle().
			Foreground(ColorText)

	// Image frame
	StyleImageFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSurface)

	// Progress bar styles
	StyleProgressEmpty = lipgloss.NewStyle().
				Foreground(ColorSurfaceAlt)

	StyleProgressDone = lipgloss.NewStyle().
				Foreground(ColorSuccess)

	StyleProgressFailed = lipgloss.NewStyle().
				Foreground(ColorError)

	StyleProgressActive = lipgloss.NewStyle().
				Foreground(ColorWarning)

	// Modal styles
	StyleModal = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorPrimary).
			Background(ColorSurface).
			Padding(1, 2)

	StyleModalTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	// Input styles
	StyleInput = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorSurfaceAlt).
			Padding(0, 1)

	StyleInputFocused = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(ColorPrimary).
				Padding(0, 1)

	StyleInputDisabled = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(ColorSurface).
				Foreground(ColorTextDim).
				Padding(0, 1)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// Help styles
	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	StyleHelpKey = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	// Picker list styles
	StyleListItem = lipgloss.NewStyle().
			Foreground(ColorText).
			Padding(0, 1)

	StyleListItemSelected = lipgloss.NewStyle().
				Foreground(ColorTextInverse).
				Background(ColorPrimary).
				Padding(0, 1)

	// Banner styles
	StyleBannerError = lipgloss.NewStyle().
				Foreground(ColorTextInverse).
				Background(ColorError).
				Bold(true).
				Padding(0, 1)

	StyleBannerWarning = lipgloss.NewStyle().
				Foreground(ColorTextInverse).
				Background(ColorWarning).
				Padding(0, 1)

	// Loading/spinner styles
	StyleSpinner = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	// Error styles
	StyleError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	// Success styles
	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// Text muted style
	StyleTextMuted = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	// Primary style
	StylePrimary = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)
)

// StatusColor returns the color used for a scene status
func StatusColor(s models.Status) lipgloss.Color {
	switch s {
	case models.StatusGenerating:
		return ColorWarning
	case models.StatusCompleted:
		return ColorSuccess
	case models.StatusError:
		return ColorError
	default:
		return ColorTextDim
	}
}

// StatusIcon returns the glyph used for a scene status
func StatusIcon(s models.Status) string {
	switch s {
	case models.StatusGenerating:
		return "◐"
	case models.StatusCompleted:
		return "●"
	case models.StatusError:
		return "✗"
	default:
		return "○"
	}
}
