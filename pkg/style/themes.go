package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Color definitions using AdaptiveColor for automatic light/dark mode switching
var (
	PrimaryColor = lipgloss.AdaptiveColor{
		Light: "#007ACC", // Blue
		Dark:  "#3D9EFF",
	}

	SecondaryColor = lipgloss.AdaptiveColor{
		Light: "#6C757D", // Gray
		Dark:  "#A0A8B0",
	}

	// Status colors
	SuccessColor = lipgloss.AdaptiveColor{
		Light: "#28A745", // Green
		Dark:  "#4CDD76",
	}

	ErrorColor = lipgloss.AdaptiveColor{
		Light: "#DC3545", // Red
		Dark:  "#FF6B7D",
	}

	WarningColor = lipgloss.AdaptiveColor{
		Light: "#FFC107", // Amber
		Dark:  "#FFD54F",
	}

	InfoColor = lipgloss.AdaptiveColor{
		Light: "#17A2B8", // Cyan
		Dark:  "#4DD0E1",
	}

	HeadingColor = lipgloss.AdaptiveColor{
		Light: "#212529",
		Dark:  "#F8F9FA",
	}

	MutedColor = lipgloss.AdaptiveColor{
		Light: "#6C757D",
		Dark:  "#ADB5BD",
	}
)

// Action colors
var (
	MoveColor = lipgloss.AdaptiveColor{
		Light: "#0EA5E9", // Sky blue
		Dark:  "#38BDF8",
	}

	TrashColor = lipgloss.AdaptiveColor{
		Light: "#F59E0B", // Orange
		Dark:  "#FBBF24",
	}

	MkdirColor = lipgloss.AdaptiveColor{
		Light: "#8B5CF6", // Purple
		Dark:  "#A78BFA",
	}
)
