package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"matchtracker/internal/catalog"
	"matchtracker/internal/config"
	"matchtracker/internal/match"
	"matchtracker/internal/store"
)

const csvHeader = "id,timestamp,yourDeck.primary,yourDeck.secondary,yourDeck.variant," +
	"opponentDeck.primary,opponentDeck.secondary,opponentDeck.variant,turnOrder,result,isLocked,notes,points,auto"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           8080,
			RequestTimeout: time.Minute,
		},
		Import: config.ImportConfig{
			MaxFileSize: 1 << 20,
			MaxRecords:  1000,
			Timeout:     time.Minute,
		},
		Export:  config.ExportConfig{DefaultUser: "anonymous"},
		Rate:    config.RateLimitConfig{Enabled: false},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	}
}

func testCards() *catalog.Catalog {
	return catalog.New([]catalog.Entry{
		{Key: "pikachu", Name: "Pikachu", DisplayName: "Pikachu ex", Element: "electric"},
		{Key: "charizard", Name: "Charizard", DisplayName: "Charizard ex", Element: "fire"},
		{Key: "mewtwo", Name: "Mewtwo", DisplayName: "Mewtwo ex", Element: "psychic"},
	})
}

func newTestServer(t *testing.T) (*Server, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return NewServer(testConfig(), testCards(), mem), mem
}

func doRequest(t *testing.T, s *Server, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func validCSV() string {
	return csvHeader + "\n" +
		`"match-1700000000000-abcdef123456","2025-01-15T12:00:00.000Z","pikachu","","","charizard","","","first","victory",true,"","10",true`
}

func TestImportCommitsValidFile(t *testing.T) {
	s, mem := newTestServer(t)

	rr := doRequest(t, s, http.MethodPost, "/api/import", "text/csv", validCSV())
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp ImportResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Valid || !resp.Committed {
		t.Errorf("valid=%t committed=%t, want both true", resp.Valid, resp.Committed)
	}
	if len(resp.Records) != 1 {
		t.Errorf("records = %d, want 1", len(resp.Records))
	}

	count, _ := mem.Count(nil)
	if count != 1 {
		t.Errorf("store count = %d, want 1", count)
	}
}

func TestImportRejectsInvalidFile(t *testing.T) {
	s, mem := newTestServer(t)

	csv := csvHeader + "\n" +
		`"match-1700000000000-abcdef123456","2025-01-15T12:00:00.000Z","missingno","","","charizard","","","first","victory",true,"","10",true`
	rr := doRequest(t, s, http.MethodPost, "/api/import", "text/csv", csv)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}

	var resp ImportResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Valid || resp.Committed {
		t.Errorf("valid=%t committed=%t, want both false", resp.Valid, resp.Committed)
	}
	if len(resp.Messages.Errors) == 0 ||
		!strings.Contains(resp.Messages.Errors[0], "Card does not exist in card database") {
		t.Errorf("messages = %v", resp.Messages.Errors)
	}

	count, _ := mem.Count(nil)
	if count != 0 {
		t.Errorf("store count = %d, want 0 (nothing committed)", count)
	}
}

func TestImportJSONFormat(t *testing.T) {
	s, _ := newTestServer(t)

	body := `[{
		"id": "match-1700000000000-abcdef123456",
		"timestamp": "2025-01-15T12:00:00.000Z",
		"yourDeck": {"primary": "pikachu", "secondary": null, "variant": null},
		"opponentDeck": {"primary": "charizard", "secondary": null, "variant": null},
		"turnOrder": "first",
		"result": "victory",
		"isLocked": true,
		"notes": "",
		"points": 10,
		"auto": true
	}]`

	rr := doRequest(t, s, http.MethodPost, "/api/import", "application/json", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
}

func TestValidateEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodPost, "/api/validate", "text/csv", "id,notes\n\"a\",\"b\"")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Missing required headers") {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestListRecords(t *testing.T) {
	s, mem := newTestServer(t)
	mem.ReplaceAll(nil, []match.Record{{
		ID:        "match-1-a",
		Timestamp: "2025-01-15T12:00:00.000Z",
		YourDeck:  &match.DeckSelection{Primary: match.Key("pikachu")},
		OpponentDeck: &match.DeckSelection{
			Primary: match.Key("charizard"),
		},
		TurnOrder: "first",
		Result:    match.ResultVictory,
	}})

	rr := doRequest(t, s, http.MethodGet, "/api/records", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var resp RecordsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || len(resp.Records) != 1 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestAddRecord(t *testing.T) {
	s, mem := newTestServer(t)

	body := `{
		"timestamp": "2025-01-15T12:00:00.000Z",
		"yourDeck": {"primary": "pikachu"},
		"opponentDeck": {"primary": "charizard"},
		"turnOrder": "first",
		"result": "win"
	}`
	rr := doRequest(t, s, http.MethodPost, "/api/records", "application/json", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var rec match.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}
	if !match.ValidID(rec.ID) {
		t.Errorf("ID %q was not auto-generated", rec.ID)
	}
	if rec.Result != match.ResultVictory {
		t.Errorf("Result = %q, want victory", rec.Result)
	}

	count, _ := mem.Count(nil)
	if count != 1 {
		t.Errorf("store count = %d, want 1", count)
	}
}

func TestAddRecordDuplicateID(t *testing.T) {
	s, _ := newTestServer(t)

	body := `{
		"id": "match-1700000000000-abcdef123456",
		"timestamp": "2025-01-15T12:00:00.000Z",
		"yourDeck": {"primary": "pikachu"},
		"opponentDeck": {"primary": "charizard"},
		"turnOrder": "first",
		"result": "victory"
	}`
	if rr := doRequest(t, s, http.MethodPost, "/api/records", "application/json", body); rr.Code != http.StatusCreated {
		t.Fatalf("first add status = %d", rr.Code)
	}
	if rr := doRequest(t, s, http.MethodPost, "/api/records", "application/json", body); rr.Code != http.StatusConflict {
		t.Fatalf("second add status = %d, want 409", rr.Code)
	}
}

func TestExportDownload(t *testing.T) {
	s, _ := newTestServer(t)

	if rr := doRequest(t, s, http.MethodPost, "/api/import", "text/csv", validCSV()); rr.Code != http.StatusOK {
		t.Fatalf("import status = %d", rr.Code)
	}

	rr := doRequest(t, s, http.MethodGet, "/api/export?user=ash", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "ptcgp_match_data_") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "# PTCGP Meta Match Data") || !strings.Contains(body, "# User: ash") {
		t.Errorf("export body lacks metadata block:\n%s", body)
	}
}

func TestExportEmptyCollection(t *testing.T) {
	s, _ := newTestServer(t)
	rr := doRequest(t, s, http.MethodGet, "/api/export", "", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	if rr := doRequest(t, s, http.MethodPost, "/api/import", "text/csv", validCSV()); rr.Code != http.StatusOK {
		t.Fatalf("import status = %d", rr.Code)
	}

	rr := doRequest(t, s, http.MethodGet, "/api/stats", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var stats match.Stats
	if err := json.Unmarshal(rr.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalGames != 1 || stats.Wins != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestCardsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodGet, "/api/cards", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var entries []catalog.Entry
	if err := json.Unmarshal(rr.Body.Bytes(), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("entries = %d, want 3", len(entries))
	}

	rr = doRequest(t, s, http.MethodGet, "/api/cards?grouped=true", "", "")
	var grouped map[string][]catalog.Entry
	if err := json.Unmarshal(rr.Body.Bytes(), &grouped); err != nil {
		t.Fatal(err)
	}
	if len(grouped["electric"]) != 1 {
		t.Errorf("grouped = %v", grouped)
	}
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	rr := doRequest(t, s, http.MethodGet, "/healthz", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestSecurityHeaders(t *testing.T) {
	s, _ := newTestServer(t)
	rr := doRequest(t, s, http.MethodGet, "/healthz", "", "")
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)

	if !rl.allow("1.2.3.4") || !rl.allow("1.2.3.4") {
		t.Fatal("first two requests should pass")
	}
	if rl.allow("1.2.3.4") {
		t.Error("third request should be limited")
	}
	if !rl.allow("5.6.7.8") {
		t.Error("other IPs are limited independently")
	}
}
