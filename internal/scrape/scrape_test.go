package scrape

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/lanave/cuadre/testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1.234,56", 1234.56},
		{"34.370", 34370},
		{"0,50", 0.5},
		{"  7.230 ", 7230},
		{"", 0},
		{"n/a", 0},
	}
	for _, tc := range cases {
		if got := ParseAmount(tc.in); got != tc.want {
			t.Fatalf("ParseAmount(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseTargetDate(t *testing.T) {
	iso, err := ParseTargetDate("15-09-2025")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if iso != "2025-09-15" {
		t.Fatalf("got %s", iso)
	}

	if _, err := ParseTargetDate("2025-09-15"); err == nil {
		t.Fatal("expected ISO input to be rejected")
	}
	if _, err := ParseTargetDate("31-02-2025"); err == nil {
		t.Fatal("expected impossible date to be rejected")
	}
}

func TestSalesAPIFetchDay(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/dashboard/auth/login":
			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			require.Equal(t, "lanavecom", creds["username"])
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]string{"token": "tok-123"},
			})
		case "/dashboard/reporte/venta/comercio/consolidado":
			gotAuth = r.Header.Get("Authorization")
			require.Contains(t, r.URL.Query().Get("daterange"), "2025-09-15")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{{
					"comercios": []map[string]any{
						{"comercio": "NAVE BARALT", "venta": 12410.0, "premio": 2400.0},
					},
				}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	api := NewSalesAPI(slog.Default(), SalesAPIConfig{
		BaseURL:  srv.URL,
		Username: "lanavecom",
		Password: "secret",
		GroupIDs: []string{"534"},
	})

	comercios, err := api.FetchDay(context.Background(), "15-09-2025")
	require.NoError(t, err)
	require.Len(t, comercios, 1)
	require.Equal(t, "NAVE BARALT", comercios[0].Comercio)
	require.Equal(t, 12410.0, comercios[0].Venta)
	require.Equal(t, 2400.0, comercios[0].Premio)
	require.Equal(t, "Bearer tok-123", gotAuth)
}

func TestSalesAPIRejectsBadDate(t *testing.T) {
	api := NewSalesAPI(slog.Default(), SalesAPIConfig{})
	_, err := api.FetchDay(context.Background(), "bad")
	require.Error(t, err)
}
