package web

import (
	"net/http"
	"strings"
)

// ThemeCookie stores the reader's theme choice.
const ThemeCookie = "apidocs_theme"

// Theme is the page colour mode.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme returns the theme named by s, or fallback when s names none.
func ParseTheme(s string, fallback Theme) Theme {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark
	case ThemeLight:
		return ThemeLight
	}
	if fallback == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Palette holds the CSS values of a theme. Values are plain hex colours
// because html/template filters functional CSS notation.
type Palette struct {
	Background    string
	Paper         string
	Text          string
	TextSecondary string
	Accent        string
	FontFamily    string
}

// Palette returns the colours the page is drawn with.
func (t Theme) Palette() Palette {
	p := Palette{
		Accent:     "#1976d2",
		FontFamily: "Poppins, sans-serif",
	}
	if t == ThemeLight {
		p.Background = "#fafbfc"
		p.Paper = "white"
		p.Text = "#212121"
		p.TextSecondary = "#666666"
		return p
	}
	p.Background = "#151515"
	p.Paper = "black"
	p.Text = "#ffffff"
	p.TextSecondary = "#b3b3b3"
	p.Accent = "#90caf9"
	return p
}

// themeFromRequest reads the theme cookie.
func themeFromRequest(r *http.Request, fallback Theme) Theme {
	c, err := r.Cookie(ThemeCookie)
	if err != nil {
		return ParseTheme("", fallback)
	}
	return ParseTheme(c.Value, fallback)
}
