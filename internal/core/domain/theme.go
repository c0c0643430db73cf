package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxBannerLen = 200

var hexColorRe = regexp.MustCompile(`^#([0-9a-f]{3}|[0-9a-f]{6})$`)

type Theme struct {
	PrimaryColor    string
	AccentColor     string
	BackgroundColor string
	FontFamily      string
	LogoURL         string
	BannerText      string
	DarkMode        bool
}

func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:    "#5c3317",
		AccentColor:     "#d4a373",
		BackgroundColor: "#fffaf3",
		FontFamily:      "Playfair Display",
	}
}

func (t *Theme) Normalize() {
	t.PrimaryColor = strings.ToLower(strings.TrimSpace(t.PrimaryColor))
	t.AccentColor = strings.ToLower(strings.TrimSpace(t.AccentColor))
	t.BackgroundColor = strings.ToLower(strings.TrimSpace(t.BackgroundColor))
	t.FontFamily = strings.TrimSpace(t.FontFamily)
	t.LogoURL = strings.TrimSpace(t.LogoURL)
	t.BannerText = strings.TrimSpace(t.BannerText)
}

func (t Theme) Validate() error {
	colors := []struct{ field, v string }{
		{"primary_color", t.PrimaryColor},
		{"accent_color", t.AccentColor},
		{"background_color", t.BackgroundColor},
	}
	for _, c := range colors {
		if !hexColorRe.MatchString(c.v) {
			return invalid(c.field, "must be #rgb or #rrggbb")
		}
	}
	if utf8.RuneCountInString(t.BannerText) > maxBannerLen {
		return invalid("banner_text", "must be at most 200 characters")
	}
	return nil
}
