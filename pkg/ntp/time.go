// Package ntp implements the NTP timestamp formats carried by RTCP
// sender reports and reception report blocks.
package ntp

import (
	"errors"
	"time"
)

var (
	epoch = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

	// CurrentEra is the most recent NTP era (RFC 5905 Section 6). It is
	// used by conversions between Time64 and time.Time and may be
	// overridden for testing or parsing historical timestamps.
	CurrentEra = era(time.Now())
)

func era(t time.Time) int32 {
	s := t.Sub(epoch) / time.Second
	return int32(s >> 32)
}

// Time64 is a 64-bit unsigned fixed-point number (Q32.32) encoding the
// number of seconds since 0h UTC on 1 January 1900, with a precision of
// about 200 picoseconds. It is the wire format of the NTP timestamp in
// a sender report.
//
// The field overflows in 2036 and every 136 years thereafter. For
// purposes of conversion to time.Time, this implementation assumes the
// timestamp is encoded in the most recent NTP era.
type Time64 uint64

// NewTime64 converts a time.Time into a Time64 relative to the most
// recent era's epoch.
func NewTime64(t time.Time) Time64 {
	d := t.Sub(epoch) - time.Duration(CurrentEra)<<32*time.Second
	sec := uint64(d / time.Second)
	frac := uint64(d%time.Second) << 32 / uint64(time.Second)
	return Time64(sec<<32 | frac)
}

// Duration returns the amount of time since the epoch represented by
// this timestamp.
func (t Time64) Duration() time.Duration {
	sec := time.Duration(t>>32) * time.Second
	frac := time.Duration(t&0xFFFFFFFF) * time.Second >> 32
	return sec + frac
}

// Time returns the Go time represented by this timestamp, relative to
// the most recent NTP era's epoch.
func (t Time64) Time() time.Time {
	eraOffset := time.Duration(CurrentEra) << 32 * time.Second
	return epoch.Add(t.Duration()).Add(eraOffset)
}

// Middle32 returns the middle 32 bits of the timestamp, the value a
// reception report stores in its last-SR field.
func (t Time64) Middle32() uint32 {
	return uint32(t >> 16)
}

// Time32 is an abbreviated timestamp formed from the middle 32 bits of
// a Time64: a Q16.16 fixed-point count of seconds. It overflows after
// around 18 hours, so it is only useful for relative durations such as
// the delay-since-last-SR field of a reception report.
type Time32 uint32

// NewTime32 converts a time.Duration into a Time32.
//
// Negative durations and durations of 65536 seconds or more do not fit
// the format and produce an error.
func NewTime32(d time.Duration) (Time32, error) {
	if d < 0 {
		return 0, errors.New("ntp: duration must be positive")
	}
	if d >= (1<<16)*time.Second {
		return 0, errors.New("ntp: duration must be less than 65536s")
	}
	sec := d / time.Second
	frac := (d - sec*time.Second) << 16
	frac = (frac + time.Second - 1) / time.Second
	return Time32(uint32(sec)<<16 | uint32(frac)), nil
}

// Duration returns the length of time represented by this timestamp.
func (t Time32) Duration() time.Duration {
	t64 := uint64(t)
	sec := (t64 >> 16) * uint64(time.Second)
	frac := (t64 & 0xFFFF) * uint64(time.Second) >> 16
	return time.Duration(sec + frac)
}
