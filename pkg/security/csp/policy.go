// Package csp builds Content-Security-Policy header values.
package csp

import "strings"

// Header names.
const (
	HeaderEnforce    = "Content-Security-Policy"
	HeaderReportOnly = "Content-Security-Policy-Report-Only"
)

// directiveOrder fixes the output order so policies compare as strings.
var directiveOrder = []string{
	"default-src",
	"script-src",
	"style-src",
	"img-src",
	"font-src",
	"connect-src",
	"frame-ancestors",
	"form-action",
	"base-uri",
	"object-src",
	"report-uri",
}

// Builder assembles a policy. It is not safe for concurrent mutation; build the
// policy once at startup and share the resulting string.
type Builder struct {
	directives map[string][]string
	reportOnly bool
}

// NewBuilder returns an empty policy.
func NewBuilder() *Builder {
	return &Builder{directives: make(map[string][]string)}
}

func (b *Builder) set(name string, sources []string) *Builder {
	b.directives[name] = sources
	return b
}

func (b *Builder) DefaultSrc(sources ...string) *Builder     { return b.set("default-src", sources) }
func (b *Builder) ScriptSrc(sources ...string) *Builder      { return b.set("script-src", sources) }
func (b *Builder) StyleSrc(sources ...string) *Builder       { return b.set("style-src", sources) }
func (b *Builder) ImgSrc(sources ...string) *Builder         { return b.set("img-src", sources) }
func (b *Builder) FontSrc(sources ...string) *Builder        { return b.set("font-src", sources) }
func (b *Builder) ConnectSrc(sources ...string) *Builder     { return b.set("connect-src", sources) }
func (b *Builder) FrameAncestors(sources ...string) *Builder { return b.set("frame-ancestors", sources) }
func (b *Builder) FormAction(sources ...string) *Builder     { return b.set("form-action", sources) }
func (b *Builder) BaseURI(sources ...string) *Builder        { return b.set("base-uri", sources) }
func (b *Builder) ObjectSrc(sources ...string) *Builder      { return b.set("object-src", sources) }

// ReportURI sets where browsers post violation reports.
func (b *Builder) ReportURI(uri string) *Builder { return b.set("report-uri", []string{uri}) }

// ReportOnly switches the header to report-only mode.
func (b *Builder) ReportOnly(enabled bool) *Builder {
	b.reportOnly = enabled
	return b
}

// Build renders the header value. Directives without sources are skipped.
func (b *Builder) Build() string {
	parts := make([]string, 0, len(b.directives))
	for _, name := range directiveOrder {
		if sources := b.directives[name]; len(sources) > 0 {
			parts = append(parts, name+" "+strings.Join(sources, " "))
		}
	}
	return strings.Join(parts, "; ")
}

// HeaderName returns the header the policy must be sent under.
func (b *Builder) HeaderName() string {
	if b.reportOnly {
		return HeaderReportOnly
	}
	return HeaderEnforce
}

// PagePolicy allows the upload page to work: inline styles from the embedded
// template and a form that posts back to the same origin. No scripts are allowed.
func PagePolicy() *Builder {
	return NewBuilder().
		DefaultSrc("'none'").
		StyleSrc("'self'", "'unsafe-inline'").
		ImgSrc("'self'", "data:").
		FrameAncestors("'none'").
		FormAction("'self'").
		BaseURI("'none'")
}

// APIPolicy is for JSON and operational endpoints that never render content.
func APIPolicy() *Builder {
	return NewBuilder().
		DefaultSrc("'none'").
		FrameAncestors("'none'")
}
