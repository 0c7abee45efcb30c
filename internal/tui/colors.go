package tui

// Color constants for the cafedesk dashboard theme
const (
	// Base Colors
	ColorCardBackground = "#1B1530" // Dark purple
	ColorBorder         = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"
	ColorHelpText      = "240" // Dark grey for help text

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED" // Logo, headers, active borders
	ColorAccentBright = "#A78BFA" // Selected row, highlights

	// State Colors
	ColorError   = "#EF4444" // Expired sessions, failed actions
	ColorSuccess = "#22C55E" // Running sessions, confirmations
	ColorWarning = "#F59E0B" // Sessions about to run out
)
