package gringotts

import (
	"strconv"
	"time"

	"github.com/iov-one/gringotts/errors"
	"gopkg.in/yaml.v3"
)

// UnixTime represents a point in time as POSIX time with seconds precision.
// All maturity times and expirations are stored using this type.
type UnixTime int64

// Time returns a time.Time structure that represents the same moment in time.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// IsZero returns true if this time represents a zero value.
func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add modifies this UNIX time by given duration. This is compatible with
// time.Time.Add method.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

// AsUnixTime converts given Time structure into its UNIX time representation.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// UnmarshalYAML supports reading both a number and an RFC 3339 formatted
// time. A number is the usual representation, but a formatted time is
// convinient in genesis files.
func (t *UnixTime) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Wrap(errors.ErrInput, "time must be a scalar")
	}
	if unix, err := strconv.ParseInt(node.Value, 10, 64); err == nil {
		if unix < 0 {
			return errors.Wrap(errors.ErrInput, "time before epoch")
		}
		*t = UnixTime(unix)
		return nil
	}
	stdtime, err := time.Parse(time.RFC3339, node.Value)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "invalid time format %q", node.Value)
	}
	unix := AsUnixTime(stdtime)
	if unix < 0 {
		return errors.Wrap(errors.ErrInput, "time before epoch")
	}
	*t = unix
	return nil
}

// Validate returns an error if this time value is invalid.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrState, "negative value")
	}
	return nil
}

// String returns the usual string representation of this time as the time.Time
// structure would.
func (t UnixTime) String() string {
	return t.Time().String()
}
