// Package format renders nanosecond instants as UTC strings using
// strftime-style layouts.
package format

import (
	"strings"
	"time"

	"github.com/alechenninger/vestdates/internal/domain"
	"github.com/ncruces/go-strftime"
)

// DefaultLayout renders as MM-DD-YYYY HH:MM:SS.
const DefaultLayout = "%m-%d-%Y %H:%M:%S"

type Formatter struct {
	layout string
}

// New returns a Formatter for a strftime layout. An empty or blank layout
// selects DefaultLayout.
func New(layout string) *Formatter {
	if strings.TrimSpace(layout) == "" {
		layout = DefaultLayout
	}
	return &Formatter{layout: layout}
}

func (f *Formatter) Layout() string { return f.layout }

// Format truncates ns to whole seconds and renders it in UTC.
func (f *Formatter) Format(ns int64) string {
	return f.FormatTime(time.Unix(domain.UnixSeconds(ns), 0))
}

func (f *Formatter) FormatTime(t time.Time) string {
	return strftime.Format(f.layout, t.UTC())
}
