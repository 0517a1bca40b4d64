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

package iet

import (
	"errors"
	"testing"
	"time"
)

// S-NPP mission base time, 2011-10-23T00:00:00Z plus 34 leap seconds.
const nppBase = int64(1698019234000000)

func TestFromUTCEpoch(t *testing.T) {
	got := FromUTC(time.Unix(0, 0))
	want := int64(378691200000000)
	if got != want {
		t.Errorf("unix epoch: expected %d, got %d", want, got)
	}
}

func TestFromUTCLeapSeconds(t *testing.T) {
	// 2011-10-23T00:00:00Z carried a TAI-UTC offset of 34 seconds
	got := FromUTC(time.Date(2011, 10, 23, 0, 0, 0, 0, time.UTC))
	if got != nppBase {
		t.Errorf("expected %d, got %d", nppBase, got)
	}
}

func TestRoundTrip(t *testing.T) {
	times := []time.Time{
		time.Date(2011, 10, 23, 0, 0, 0, 0, time.UTC),
		time.Date(2015, 6, 30, 23, 59, 59, 0, time.UTC),
		time.Date(2024, 6, 27, 19, 30, 19, 700000000, time.UTC),
	}
	for _, in := range times {
		out := ToUTC(FromUTC(in))
		if !out.Equal(in) {
			t.Errorf("round trip %v: got %v", in, out)
		}
	}
}

func TestGranule(t *testing.T) {
	granLen := int64(37405000)

	tests := []struct {
		name  string
		iet   int64
		idx   int64
		begin int64
	}{
		{"at base", nppBase, 0, nppBase},
		{"inside first", nppBase + 10, 0, nppBase},
		{"at boundary", nppBase + granLen, 1, nppBase + granLen},
		{"far out", nppBase + 5*granLen + 7, 5, nppBase + 5*granLen},
	}
	for _, tt := range tests {
		idx, begin, end, err := Granule(tt.iet, nppBase, granLen)
		if err != nil {
			t.Fatalf("%s: unexpected error: %s", tt.name, err)
		}
		if idx != tt.idx {
			t.Errorf("%s: expected index %d, got %d", tt.name, tt.idx, idx)
		}
		if begin != tt.begin {
			t.Errorf("%s: expected begin %d, got %d", tt.name, tt.begin, begin)
		}
		if end != tt.begin+granLen {
			t.Errorf("%s: expected end %d, got %d", tt.name, tt.begin+granLen, end)
		}
	}
}

func TestGranuleBeforeBase(t *testing.T) {
	_, _, _, err := Granule(nppBase-1, nppBase, 37405000)
	if !errors.Is(err, ErrTimeBeforeEpoch) {
		t.Errorf("expected ErrTimeBeforeEpoch, got %v", err)
	}
}

func TestFormat(t *testing.T) {
	iet := FromUTC(time.Date(2024, 6, 27, 19, 30, 19, 700000000, time.UTC))
	if got := FormatDate(iet); got != "20240627" {
		t.Errorf("expected 20240627, got %s", got)
	}
	if got := FormatTime(iet); got != "193019.700000Z" {
		t.Errorf("expected 193019.700000Z, got %s", got)
	}
}
