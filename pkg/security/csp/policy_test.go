package csp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilder_Build(t *testing.T) {
	tests := []struct {
		name    string
		builder *Builder
		want    string
	}{
		{name: "empty", builder: NewBuilder(), want: ""},
		{
			name:    "single directive",
			builder: NewBuilder().DefaultSrc("'self'"),
			want:    "default-src 'self'",
		},
		{
			name: "fixed order regardless of call order",
			builder: NewBuilder().
				ReportURI("/csp-report").
				ObjectSrc("'none'").
				StyleSrc("'self'", "'unsafe-inline'").
				DefaultSrc("'self'"),
			want: "default-src 'self'; style-src 'self' 'unsafe-inline'; object-src 'none'; report-uri /csp-report",
		},
		{
			name:    "directive without sources is skipped",
			builder: NewBuilder().DefaultSrc("'none'").ScriptSrc(),
			want:    "default-src 'none'",
		},
		{
			name:    "later call replaces sources",
			builder: NewBuilder().ImgSrc("https:").ImgSrc("'self'"),
			want:    "img-src 'self'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.builder.Build())
		})
	}
}

func TestBuilder_HeaderName(t *testing.T) {
	b := NewBuilder().DefaultSrc("'none'")
	assert.Equal(t, HeaderEnforce, b.HeaderName())
	assert.Equal(t, HeaderReportOnly, b.ReportOnly(true).HeaderName())
	assert.Equal(t, HeaderEnforce, b.ReportOnly(false).HeaderName())
}

func TestPagePolicy(t *testing.T) {
	got := PagePolicy().Build()

	assert.Contains(t, got, "default-src 'none'")
	assert.Contains(t, got, "style-src 'self' 'unsafe-inline'")
	assert.Contains(t, got, "form-action 'self'")
	assert.Contains(t, got, "frame-ancestors 'none'")
	assert.NotContains(t, got, "script-src")
}

func TestAPIPolicy(t *testing.T) {
	assert.Equal(t, "default-src 'none'; frame-ancestors 'none'", APIPolicy().Build())
}
