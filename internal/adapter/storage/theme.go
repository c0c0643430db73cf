package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/niksmo/choco-shop/internal/core/domain"
	"github.com/niksmo/choco-shop/internal/core/port"
)

var _ port.ThemeStorage = (*ThemeRepository)(nil)

const themeKey = "theme"

// themeRecord is the jsonb shape of the theme row in settings.
type themeRecord struct {
	PrimaryColor    string `json:"primary_color"`
	AccentColor     string `json:"accent_color"`
	BackgroundColor string `json:"background_color"`
	FontFamily      string `json:"font_family"`
	LogoURL         string `json:"logo_url"`
	BannerText      string `json:"banner_text"`
	DarkMode        bool   `json:"dark_mode"`
}

type ThemeRepository struct {
	sqldb sqldb
}

func NewThemeRepository(sqldb sqldb) ThemeRepository {
	return ThemeRepository{sqldb}
}

func (r ThemeRepository) ReadTheme(ctx context.Context) (domain.Theme, error) {
	const op = "ThemeRepository.ReadTheme"

	var raw []byte
	err := r.sqldb.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = $1;`, themeKey,
	).Scan(&raw)
	if err != nil {
		return domain.Theme{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	var rec themeRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Theme{}, fmt.Errorf("%s: %w", op, err)
	}
	return domain.Theme(rec), nil
}

func (r ThemeRepository) StoreTheme(ctx context.Context, t domain.Theme) error {
	const op = "ThemeRepository.StoreTheme"

	raw, err := json.Marshal(themeRecord(t))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at;`

	if _, err := r.sqldb.ExecContext(ctx, query, themeKey, raw); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
