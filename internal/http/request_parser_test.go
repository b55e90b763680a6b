package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestParseMonthParam(t *testing.T) {
	tests := []struct {
		name   string
		query  url.Values
		want   MonthParam
		wantOK bool
	}{
		{"absent", url.Values{}, MonthParam{}, true},
		{"valid", url.Values{"month": {"2025-04"}}, MonthParam{Year: 2025, Month: 4}, true},
		{"malformed", url.Values{"month": {"April"}}, MonthParam{}, false},
		{"out of range", url.Values{"month": {"2025-13"}}, MonthParam{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMonthParam(tt.query)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseMonthParam() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
	if s := (MonthParam{Year: 2025, Month: 4}).String(); s != "2025-04" {
		t.Errorf("String() = %q", s)
	}
}

func TestRequestBodyParser_Form(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("description=Coffee%01&amount=42.5"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.IsJSON() {
		t.Error("form body detected as JSON")
	}
	if got := p.Get("description"); got != "Coffee" {
		t.Errorf("description = %q, control characters should be stripped", got)
	}
	if got := p.Get("missing"); got != "" {
		t.Errorf("missing = %q", got)
	}
}

func TestRequestBodyParser_JSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount": 42.5, "description": " Coffee "}`))
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !p.IsJSON() {
		t.Fatal("expected JSON")
	}
	if got := p.Get("amount"); got != "42.5" {
		t.Errorf("amount = %q", got)
	}
	if got := p.Get("description"); got != " Coffee " {
		t.Errorf("description = %q, whitespace is left to validation", got)
	}
}

func TestRequestBodyParser_Errors(t *testing.T) {
	p := NewRequestBodyParser(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{broken`)))
	if err := p.Parse(); err == nil {
		t.Error("expected JSON error")
	}

	big := strings.Repeat("a", maxBodyBytes+10)
	p = NewRequestBodyParser(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("x="+big)))
	if err := p.Parse(); err == nil {
		t.Error("expected size error")
	}
}
