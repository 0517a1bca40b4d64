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

package rdr

import (
	"errors"

	"github.com/ssec-jpss/go-rdr/pkg/iet"
)

var (
	// ErrTimeBeforeEpoch is returned for packets timestamped before the
	// mission base time.
	ErrTimeBeforeEpoch = iet.ErrTimeBeforeEpoch

	// ErrInconsistent is returned when aggregation inputs do not share
	// the same mission and product set.
	ErrInconsistent = errors.New("inconsistent aggregation inputs")

	// ErrNotEnoughBytes is returned when a RawAP structure cannot be
	// decoded from the available data.
	ErrNotEnoughBytes = errors.New("not enough bytes")
)

// Drop reasons for packets and groups recovered from locally and logged.
// Dropped packets whose apid belongs to a product of the bundle are folded
// into that product's N_Percent_Missing_Data; groups of unconfigured apids
// (DropUnknownApid) are not counted anywhere.
const (
	DropOrphanContinuation = "orphan continuation"
	DropNoTimecode         = "first packet has no timecode"
	DropLateGroup          = "late group"
	DropUnknownApid        = "apid not configured"
)
