package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Comercio is one shop's consolidated daily figures from the
// sales-reporting vendor.
type Comercio struct {
	ComercioID   int     `json:"comercio_id"`
	ComercioType string  `json:"comercio_type"`
	Comercio     string  `json:"comercio"`
	Venta        float64 `json:"venta"`
	Premio       float64 `json:"premio"`
}

// SalesAPIConfig holds the reporting vendor's endpoint and credentials.
type SalesAPIConfig struct {
	BaseURL  string
	Username string
	Password string
	// GroupIDs are the vendor-side group identifiers queried for the
	// consolidated report.
	GroupIDs []string
	Timeout  time.Duration
}

// SalesAPI is the REST client for the sales-reporting vendor.
type SalesAPI struct {
	cfg    SalesAPIConfig
	logger *slog.Logger
	client *http.Client
}

func NewSalesAPI(logger *slog.Logger, cfg SalesAPIConfig) *SalesAPI {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.sourcesws.com"
	}
	if len(cfg.GroupIDs) == 0 {
		cfg.GroupIDs = []string{"534", "579", "551"}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SalesAPI{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// FetchDay logs in and pulls the consolidated per-shop report for a
// DD-MM-YYYY date across all configured groups.
func (s *SalesAPI) FetchDay(ctx context.Context, targetDate string) ([]Comercio, error) {
	isoDate, err := ParseTargetDate(targetDate)
	if err != nil {
		return nil, err
	}

	token, err := s.login(ctx)
	if err != nil {
		return nil, fmt.Errorf("scrape: sales api login: %w", err)
	}

	var all []Comercio
	for _, groupID := range s.cfg.GroupIDs {
		comercios, err := s.fetchGroup(ctx, token, groupID, isoDate)
		if err != nil {
			// One failing group does not sink the others in the vendor's
			// own console either.
			s.logger.Error("sales api group fetch failed",
				slog.String("group_id", groupID), slog.Any("error", err))
			continue
		}
		all = append(all, comercios...)
	}
	s.logger.Info("sales api fetch complete",
		slog.String("target_date", targetDate), slog.Int("comercios", len(all)))
	return all, nil
}

func (s *SalesAPI) login(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"username": s.cfg.Username,
		"password": s.cfg.Password,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/dashboard/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login returned %s", resp.Status)
	}

	var payload struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.Data.Token == "" {
		return "", fmt.Errorf("no token in login response")
	}
	return payload.Data.Token, nil
}

func (s *SalesAPI) fetchGroup(ctx context.Context, token, groupID, isoDate string) ([]Comercio, error) {
	daterange, err := json.Marshal([]string{isoDate, isoDate})
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("grupo_id", groupID)
	params.Set("daterange", string(daterange))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.cfg.BaseURL+"/dashboard/reporte/venta/comercio/consolidado?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("report returned %s: %s", resp.Status, snippet)
	}

	// The report wraps the shops one level down: {data: [{comercios: [...]}]}.
	var payload struct {
		Data []struct {
			Comercios []Comercio `json:"comercios"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	var out []Comercio
	for _, group := range payload.Data {
		out = append(out, group.Comercios...)
	}
	return out, nil
}
