package domain

// Theme is the colour scheme a host page asked slides to render with.
// It travels with each slide view instead of living in shared state.
type Theme string

// Supported themes
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme converts a configured value into a Theme.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	case "":
		return ThemeLight, nil
	default:
		return "", ErrInvalidTheme
	}
}
