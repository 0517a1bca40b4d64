/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// Package iet implements the JPSS time model: IET microseconds since the
// mission epoch 1958-01-01T00:00:00 TAI, conversions to and from UTC and
// the granule boundary arithmetic.
package iet

import (
	"errors"
	"fmt"
	"time"
)

// Micros is an IET timestamp, microseconds since 1958-01-01 TAI.
type Micros = int64

const (
	MicrosPerSec = int64(1000000)

	// Seconds between 1958-01-01 and the unix epoch 1970-01-01.
	epochDeltaSec = int64(378691200)
)

var ErrTimeBeforeEpoch = errors.New("time before mission epoch")

type leap struct {
	utc    int64 // unix seconds at which the offset becomes effective
	offset int64 // cumulative TAI-UTC seconds
}

// Leap seconds as announced by IERS Bulletin C. TAI-UTC before 1972 is
// treated as zero, which is irrelevant for any mission flying this format.
var leaps = []leap{
	{63072000, 10},
	{78796800, 11},
	{94694400, 12},
	{126230400, 13},
	{157766400, 14},
	{189302400, 15},
	{220924800, 16},
	{252460800, 17},
	{283996800, 18},
	{315532800, 19},
	{362793600, 20},
	{394329600, 21},
	{425865600, 22},
	{489024000, 23},
	{567993600, 24},
	{631152000, 25},
	{662688000, 26},
	{709948800, 27},
	{741484800, 28},
	{773020800, 29},
	{820454400, 30},
	{867715200, 31},
	{915148800, 32},
	{1136073600, 33},
	{1230768000, 34},
	{1341100800, 35},
	{1435708800, 36},
	{1483228800, 37},
}

func taiOffset(unixSec int64) int64 {
	for i := len(leaps) - 1; i >= 0; i-- {
		if unixSec >= leaps[i].utc {
			return leaps[i].offset
		}
	}
	return 0
}

// FromUTC converts a wall-clock time to IET microseconds.
func FromUTC(t time.Time) Micros {
	u := t.UnixMicro()
	return u + epochDeltaSec*MicrosPerSec + taiOffset(u/MicrosPerSec)*MicrosPerSec
}

// ToUTC converts IET microseconds back to a UTC wall-clock time.
func ToUTC(iet Micros) time.Time {
	unixMicros := iet - epochDeltaSec*MicrosPerSec
	for i := len(leaps) - 1; i >= 0; i-- {
		if unixMicros-leaps[i].offset*MicrosPerSec >= leaps[i].utc*MicrosPerSec {
			unixMicros -= leaps[i].offset * MicrosPerSec
			break
		}
	}
	return time.UnixMicro(unixMicros).UTC()
}

// Now returns the current time as IET microseconds.
func Now() Micros {
	return FromUTC(time.Now())
}

// Granule maps an IET timestamp to its granule index and window for a
// product anchored at base with the given granule length.
func Granule(iet, base, granLen Micros) (idx int64, begin, end Micros, err error) {
	if iet < base {
		return 0, 0, 0, fmt.Errorf("iet %d < base %d: %w", iet, base, ErrTimeBeforeEpoch)
	}
	idx = (iet - base) / granLen
	begin = base + idx*granLen
	end = begin + granLen
	return idx, begin, end, nil
}

// FormatDate renders an IET timestamp as YYYYMMDD, the form used verbatim
// in RDR date attributes.
func FormatDate(iet Micros) string {
	return ToUTC(iet).Format("20060102")
}

// FormatTime renders an IET timestamp as HHMMSS.ffffffZ, the form used
// verbatim in RDR time attributes.
func FormatTime(iet Micros) string {
	t := ToUTC(iet)
	return fmt.Sprintf("%02d%02d%02d.%06dZ", t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/1000)
}
