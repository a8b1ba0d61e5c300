package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"zeitnachweis/internal/server/config"
	"zeitnachweis/internal/server/service"
)

func TestHandleUploadProbeShortCircuits(t *testing.T) {
	// A probe=true request is answered from the window check alone.
	// Repository and store are nil here and would panic if the probe
	// ever reached validation, storage or the database.
	cfg := &config.Config{UploadWindowDays: 0}
	h := NewHandler(service.NewUploadService(nil, nil, cfg, nil), nil, nil, nil, nil, nil, cfg)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("probe", "true"); err != nil {
		t.Fatal(err)
	}
	if err := form.WriteField("employeeId", "1"); err != nil {
		t.Fatal(err)
	}
	part, err := form.CreateFormFile("file", "zeitnachweis.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("%PDF-1.4")); err != nil {
		t.Fatal(err)
	}
	if err := form.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set(echo.HeaderContentType, form.FormDataContentType())
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	if err := h.HandleUpload(c); err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Allowed bool   `json:"allowed"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body %q: %v", rec.Body.String(), err)
	}
	if !resp.Allowed {
		t.Error("window without limit must report the upload as allowed")
	}
	if resp.Message == "" {
		t.Error("probe response is missing a message")
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name      string
		firstname string
		lastname  string
	}{
		{"Anna Schmidt", "Anna", "Schmidt"},
		{"Karl Theodor zu Guttenberg", "Karl", "Theodor zu Guttenberg"},
		{"Madonna", "Madonna", "Madonna"},
		{"  Anna   Schmidt  ", "Anna", "Schmidt"},
		{"", "", ""},
	}

	for _, tt := range tests {
		firstname, lastname := splitName(tt.name)
		if firstname != tt.firstname || lastname != tt.lastname {
			t.Errorf("splitName(%q) = %q, %q; want %q, %q",
				tt.name, firstname, lastname, tt.firstname, tt.lastname)
		}
	}
}
