package cli

import (
	"strconv"

	"github.com/alechenninger/vestdates/internal/config"
	"github.com/spf13/pflag"
)

// instantValue is a flag holding nanoseconds since the epoch. It accepts
// either an integer or an RFC 3339 timestamp.
type instantValue struct{ ns *int64 }

func newInstantValue(p *int64) *instantValue { return &instantValue{ns: p} }

func (v *instantValue) String() string {
	if v.ns == nil {
		return ""
	}
	return strconv.FormatInt(*v.ns, 10)
}

func (v *instantValue) Set(s string) error {
	n, err := config.ParseInstant(s)
	if err != nil {
		return err
	}
	*v.ns = n
	return nil
}

func (v *instantValue) Type() string { return "instant" }

// durationValue is a flag holding a duration in nanoseconds.
type durationValue struct{ ns *int64 }

func newDurationValue(p *int64) *durationValue { return &durationValue{ns: p} }

func (v *durationValue) String() string {
	if v.ns == nil {
		return ""
	}
	return strconv.FormatInt(*v.ns, 10)
}

func (v *durationValue) Set(s string) error {
	n, err := config.ParseDuration(s)
	if err != nil {
		return err
	}
	*v.ns = n
	return nil
}

func (v *durationValue) Type() string { return "duration" }

var (
	_ pflag.Value = (*instantValue)(nil)
	_ pflag.Value = (*durationValue)(nil)
)
