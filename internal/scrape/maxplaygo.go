package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// Game codes in the vendor's sales console filter.
const (
	gameFiguras  = "O"
	gameLoterias = "A"
)

// AgencyFigures is one agency's scraped sales/prizes pair for a day.
type AgencyFigures struct {
	AgencyName string  `json:"agency_name"`
	Sales      float64 `json:"sales"`
	Prizes     float64 `json:"prizes"`
}

// DayFigures carries both game categories scraped for one date.
type DayFigures struct {
	TargetDate string          `json:"target_date"`
	Figuras    []AgencyFigures `json:"figuras"`
	Loterias   []AgencyFigures `json:"loterias"`
}

// MaxPlayGoConfig holds the vendor console credentials and scope.
type MaxPlayGoConfig struct {
	BaseURL  string
	Username string
	Password string
	// Group is the banking-group link text to drill into; only agencies
	// under it are extracted.
	Group   string
	Timeout time.Duration
}

// MaxPlayGo scrapes the vendor's web console with a headless browser.
type MaxPlayGo struct {
	cfg    MaxPlayGoConfig
	logger *slog.Logger
}

func NewMaxPlayGo(logger *slog.Logger, cfg MaxPlayGoConfig) *MaxPlayGo {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://web.maxplaygo.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 90 * time.Second
	}
	return &MaxPlayGo{cfg: cfg, logger: logger}
}

// FetchDay scrapes both game categories for a DD-MM-YYYY date. Each
// category is a separate login/logout pass; the console loses its filter
// state between drill-downs.
func (m *MaxPlayGo) FetchDay(ctx context.Context, targetDate string) (DayFigures, error) {
	if _, err := ParseTargetDate(targetDate); err != nil {
		return DayFigures{}, err
	}
	out := DayFigures{TargetDate: targetDate}

	var err error
	if out.Figuras, err = m.scrapeGame(ctx, targetDate, gameFiguras); err != nil {
		return DayFigures{}, fmt.Errorf("scrape: figuras for %s: %w", targetDate, err)
	}
	if out.Loterias, err = m.scrapeGame(ctx, targetDate, gameLoterias); err != nil {
		return DayFigures{}, fmt.Errorf("scrape: loterias for %s: %w", targetDate, err)
	}
	return out, nil
}

func (m *MaxPlayGo) scrapeGame(ctx context.Context, targetDate, game string) ([]AgencyFigures, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	u, err := launcher.New().Headless(true).Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	defer browser.MustClose()

	var page *rod.Page
	if err := rod.Try(func() {
		page = browser.MustPage(m.cfg.BaseURL + "/login")
		page.MustElement("#usuario").MustInput(m.cfg.Username)
		page.MustElement("#clave").MustInput(m.cfg.Password)
		page.MustElement("button[type='submit']").MustClick()
		page.MustWaitStable()
	}); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	defer m.logout(page)

	if err := rod.Try(func() {
		page.MustNavigate(m.cfg.BaseURL + "/venxcom/")
		page.MustWaitStable()
		fecha := page.MustElement("#id_fecha")
		fecha.MustSelectAllText().MustInput(targetDate)
		page.MustElement("#n-nivel").MustInput("G")
		page.MustElement("#id_moneda").MustInput("BS")
		page.MustElement("#id_juego").MustInput(game)
		page.MustElement("button[type='submit']").MustClick()
		page.MustElement("a[title='Detalles Ventas']")
	}); err != nil {
		return nil, fmt.Errorf("apply filters: %w", err)
	}

	// Drill into the configured banking group.
	if err := rod.Try(func() {
		links := page.MustElements("a[title='Detalles Ventas']")
		for _, link := range links {
			if strings.Contains(link.MustText(), m.cfg.Group) {
				link.MustClick()
				page.MustElement("table tbody tr")
				return
			}
		}
		panic(fmt.Sprintf("group %q not listed", m.cfg.Group))
	}); err != nil {
		return nil, fmt.Errorf("open group details: %w", err)
	}

	var figures []AgencyFigures
	if err := rod.Try(func() {
		rows := page.MustElements("table tbody tr")
		for _, row := range rows {
			cells := row.MustElements("td")
			if len(cells) < 3 {
				continue
			}
			name := strings.TrimSpace(cells[0].MustText())
			if !strings.HasPrefix(name, "NAVE") {
				continue
			}
			figures = append(figures, AgencyFigures{
				AgencyName: name,
				Sales:      ParseAmount(cells[1].MustText()),
				Prizes:     ParseAmount(cells[2].MustText()),
			})
		}
	}); err != nil {
		return nil, fmt.Errorf("read sales table: %w", err)
	}

	m.logger.Info("vendor scrape complete",
		slog.String("game", game),
		slog.String("target_date", targetDate),
		slog.Int("agencies", len(figures)))
	return figures, nil
}

// logout closes the console session before dropping the browser. A stale
// session blocks the next login on this vendor.
func (m *MaxPlayGo) logout(page *rod.Page) {
	if page == nil {
		return
	}
	if err := rod.Try(func() {
		page.MustElement("button.bg-gradient-cyan").MustClick()
		page.MustWaitStable()
	}); err != nil {
		m.logger.Warn("vendor logout failed", slog.Any("error", err))
	}
}
