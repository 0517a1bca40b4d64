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
	"encoding/binary"
	"fmt"

	"github.com/ssec-jpss/go-rdr/pkg/config"
	"github.com/ssec-jpss/go-rdr/pkg/layers"
)

// RawApplicationPackets blob layout, all integers big-endian:
//
//	48-byte header
//	one 32-byte tracker entry per configured apid, in config order
//	concatenated raw packets in granule order
const (
	RawAPHeaderLen  = 48
	TrackerEntryLen = 32

	// RawAPVersion is stored in the first two bytes of the reserved
	// header region.
	RawAPVersion = uint16(1)

	// NoPacketsOffset marks tracker entries for apids with no packets.
	NoPacketsOffset = uint32(0xFFFFFFFF)

	// NoPacketsIET marks first/last times of apids with no packets.
	NoPacketsIET = int64(-1)
)

// TrackerEntry indexes one apid's packets inside the blob.
type TrackerEntry struct {
	// StartOffset is the absolute blob offset of the apid's first
	// packet, or NoPacketsOffset.
	StartOffset  uint32
	PktsReserved uint32
	PktsReceived uint32
	Apid         uint16
	FirstIET     int64
	LastIET      int64
}

// RawAPHeader is the fixed header of the blob.
type RawAPHeader struct {
	NextPktPos   uint64
	ApidCount    uint64
	PktsReserved uint64
	PktsReceived uint64
	Version      uint16
}

// RawAP is a decoded RawApplicationPackets blob.
type RawAP struct {
	Header   RawAPHeader
	Trackers []TrackerEntry
	// Packets holds the raw packet bytes in storage order.
	Packets [][]byte
}

// BuildRawAP serializes a granule into its blob for a product's
// configured apid list. Tracker entries appear in config order; packets
// appear in granule order.
func BuildRawAP(g *Granule, apids []config.ApidSpec) ([]byte, []TrackerEntry) {
	trackers := make([]TrackerEntry, len(apids))
	slot := make(map[uint16]int, len(apids))
	reserved := uint64(0)
	for i, spec := range apids {
		trackers[i] = TrackerEntry{
			StartOffset:  NoPacketsOffset,
			PktsReserved: spec.MaxExpected,
			Apid:         spec.Num,
			FirstIET:     NoPacketsIET,
			LastIET:      NoPacketsIET,
		}
		slot[spec.Num] = i
		reserved += uint64(spec.MaxExpected)
	}

	size := RawAPHeaderLen + TrackerEntryLen*len(apids)
	for _, grp := range g.Groups {
		size += grp.Size()
	}
	buf := make([]byte, RawAPHeaderLen+TrackerEntryLen*len(apids), size)

	received := uint64(0)
	for _, grp := range g.Groups {
		for _, pkt := range grp.Packets {
			i, ok := slot[pkt.Apid]
			if !ok {
				continue
			}
			t := &trackers[i]
			pktIET := pkt.IET
			if pktIET == layers.NoTimecode {
				pktIET = grp.IET
			}
			if t.PktsReceived == 0 {
				t.StartOffset = uint32(len(buf))
				t.FirstIET = pktIET
			}
			t.PktsReceived++
			t.LastIET = pktIET
			received++
			buf = append(buf, pkt.Data...)
		}
	}

	header := RawAPHeader{
		NextPktPos:   uint64(len(buf)),
		ApidCount:    uint64(len(apids)),
		PktsReserved: reserved,
		PktsReceived: received,
		Version:      RawAPVersion,
	}
	putHeader(buf[:RawAPHeaderLen], &header)
	for i := range trackers {
		putTracker(buf[RawAPHeaderLen+i*TrackerEntryLen:], &trackers[i])
	}
	return buf, trackers
}

func putHeader(buf []byte, h *RawAPHeader) {
	binary.BigEndian.PutUint64(buf[0:8], h.NextPktPos)
	binary.BigEndian.PutUint64(buf[8:16], h.ApidCount)
	binary.BigEndian.PutUint64(buf[16:24], h.PktsReserved)
	binary.BigEndian.PutUint64(buf[24:32], h.PktsReceived)
	binary.BigEndian.PutUint16(buf[32:34], h.Version)
	// bytes 34..48 reserved, zero
}

func putTracker(buf []byte, t *TrackerEntry) {
	binary.BigEndian.PutUint32(buf[0:4], t.StartOffset)
	binary.BigEndian.PutUint32(buf[4:8], t.PktsReserved)
	binary.BigEndian.PutUint32(buf[8:12], t.PktsReceived)
	binary.BigEndian.PutUint16(buf[12:14], t.Apid)
	// bytes 14..16 pad
	binary.BigEndian.PutUint64(buf[16:24], uint64(t.FirstIET))
	binary.BigEndian.PutUint64(buf[24:32], uint64(t.LastIET))
}

// ParseRawAPHeader decodes the fixed header.
func ParseRawAPHeader(data []byte) (RawAPHeader, error) {
	if len(data) < RawAPHeaderLen {
		return RawAPHeader{}, fmt.Errorf("RawAP header: %w", ErrNotEnoughBytes)
	}
	return RawAPHeader{
		NextPktPos:   binary.BigEndian.Uint64(data[0:8]),
		ApidCount:    binary.BigEndian.Uint64(data[8:16]),
		PktsReserved: binary.BigEndian.Uint64(data[16:24]),
		PktsReceived: binary.BigEndian.Uint64(data[24:32]),
		Version:      binary.BigEndian.Uint16(data[32:34]),
	}, nil
}

// ParseRawAP decodes a complete blob, splitting the storage region back
// into individual packets in storage order.
func ParseRawAP(data []byte) (*RawAP, error) {
	header, err := ParseRawAPHeader(data)
	if err != nil {
		return nil, err
	}
	if header.NextPktPos > uint64(len(data)) {
		return nil, fmt.Errorf("RawAP storage (next=%d len=%d): %w", header.NextPktPos, len(data), ErrNotEnoughBytes)
	}

	n := int(header.ApidCount)
	trackerEnd := RawAPHeaderLen + n*TrackerEntryLen
	if len(data) < trackerEnd {
		return nil, fmt.Errorf("RawAP trackers: %w", ErrNotEnoughBytes)
	}
	trackers := make([]TrackerEntry, n)
	for i := 0; i < n; i++ {
		buf := data[RawAPHeaderLen+i*TrackerEntryLen:]
		trackers[i] = TrackerEntry{
			StartOffset:  binary.BigEndian.Uint32(buf[0:4]),
			PktsReserved: binary.BigEndian.Uint32(buf[4:8]),
			PktsReceived: binary.BigEndian.Uint32(buf[8:12]),
			Apid:         binary.BigEndian.Uint16(buf[12:14]),
			FirstIET:     int64(binary.BigEndian.Uint64(buf[16:24])),
			LastIET:      int64(binary.BigEndian.Uint64(buf[24:32])),
		}
	}

	var packets [][]byte
	for off := trackerEnd; off < int(header.NextPktPos); {
		total, err := layers.PacketLength(data[off:])
		if err != nil {
			return nil, fmt.Errorf("RawAP packet at %d: %w", off, ErrNotEnoughBytes)
		}
		if off+total > int(header.NextPktPos) {
			return nil, fmt.Errorf("RawAP packet at %d overruns storage: %w", off, ErrNotEnoughBytes)
		}
		packets = append(packets, data[off:off+total])
		off += total
	}

	return &RawAP{Header: header, Trackers: trackers, Packets: packets}, nil
}
