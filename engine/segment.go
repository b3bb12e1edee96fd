/*
segment.go - Interval segmentation

PURPOSE:
  Splits a worked interval [start, start+duration) into one segment per
  calendar day it touches, in chronological order. Segmentation is exact:
  the segments' worked seconds always sum to the interval's duration, and
  an interval ending exactly at midnight produces no trailing zero-length
  segment.

LOCATION:
  Day boundaries are taken in the start timestamp's location. Durations
  are computed by subtraction, so days shortened or lengthened by DST
  transitions still conserve total seconds.
*/
package engine

import "time"

// SplitInterval partitions [start, start+duration) into per-day segments.
// duration must be positive; callers validate before deriving.
func SplitInterval(start time.Time, duration Seconds) []Segment {
	end := start.Add(duration.Duration())

	var segments []Segment
	cur := start
	for {
		day := midnightOf(cur)
		next := day.AddDate(0, 0, 1)
		if !end.After(next) {
			// Final day. end == next midnight yields a full segment here
			// and no trailing empty one.
			if worked := Seconds(end.Sub(cur) / time.Second); worked > 0 {
				segments = append(segments, Segment{Date: day, Worked: worked})
			}
			return segments
		}
		segments = append(segments, Segment{Date: day, Worked: Seconds(next.Sub(cur) / time.Second)})
		cur = next
	}
}

// midnightOf truncates a timestamp to the start of its calendar day,
// preserving the location.
func midnightOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
