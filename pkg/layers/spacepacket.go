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

package layers

import (
	"encoding/binary"
	"errors"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/ssec-jpss/go-rdr/pkg/log"
)

const (
	// SpacePacketLayerNum identifies the layer
	SpacePacketLayerNum = 2001

	// PrimaryHeaderLength is the fixed CCSDS primary header size
	PrimaryHeaderLength = 6

	// CdsTimecodeLength is the JPSS day segmented timecode size:
	// 2-byte days, 4-byte millis of day, 2-byte micros of milli
	CdsTimecodeLength = 8

	// NoTimecode marks packets whose apid carries no secondary header
	NoTimecode = int64(-1)
)

type SeqFlags uint8

const (
	SeqContinuation SeqFlags = 0
	SeqFirst        SeqFlags = 1
	SeqLast         SeqFlags = 2
	SeqStandalone   SeqFlags = 3
)

func (f SeqFlags) String() string {
	switch f {
	case SeqFirst:
		return "first"
	case SeqContinuation:
		return "cont"
	case SeqLast:
		return "last"
	default:
		return "standalone"
	}
}

// SpacePacket is one CCSDS space packet: the decoded primary header
// fields, the IET timestamp from the secondary header when present and
// the raw bytes of the whole packet.
type SpacePacket struct {
	layers.BaseLayer
	Version            uint8
	Type               uint8
	HasSecondaryHeader bool
	Apid               uint16
	SeqFlags           SeqFlags
	SeqCount           uint16
	// Length is the CCSDS length field, one less than the data field size
	Length uint16
	// IET microseconds from the CDS timecode, NoTimecode if absent
	IET int64
	// Data holds the complete packet, primary header included
	Data []byte
}

var SpacePacketLayerType = gopacket.RegisterLayerType(SpacePacketLayerNum,
	gopacket.LayerTypeMetadata{Name: "SpacePacketLayerType", Decoder: gopacket.DecodeFunc(DecodeSpacePacketLayer)})

// LayerType returns the type of the SpacePacket layer in the layer catalog
func (sp *SpacePacket) LayerType() gopacket.LayerType {
	return SpacePacketLayerType
}

// TotalLength returns the size of the whole packet in bytes
func (sp *SpacePacket) TotalLength() int {
	return PrimaryHeaderLength + int(sp.Length) + 1
}

// PacketLength derives the total packet size from the first 6 bytes of buf
// without decoding the rest.
func PacketLength(buf []byte) (int, error) {
	if len(buf) < PrimaryHeaderLength {
		return 0, errors.New("space packet too short. Must at least have a primary header.")
	}
	return PrimaryHeaderLength + int(binary.BigEndian.Uint16(buf[4:6])) + 1, nil
}

// DecodeFromBytes decodes one space packet from the head of data.
func (sp *SpacePacket) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < PrimaryHeaderLength {
		df.SetTruncated()
		return errors.New("space packet too short. Must at least have a primary header.")
	}

	word0 := binary.BigEndian.Uint16(data[0:2])
	word1 := binary.BigEndian.Uint16(data[2:4])

	sp.Version = uint8(word0 >> 13)
	sp.Type = uint8((word0 >> 12) & 0x1)
	sp.HasSecondaryHeader = (word0>>11)&0x1 == 1
	sp.Apid = word0 & 0x7ff
	sp.SeqFlags = SeqFlags(word1 >> 14)
	sp.SeqCount = word1 & 0x3fff
	sp.Length = binary.BigEndian.Uint16(data[4:6])

	total := sp.TotalLength()
	if len(data) < total {
		df.SetTruncated()
		return errors.New("space packet truncated. Data field shorter than length field.")
	}
	sp.Data = data[:total]
	sp.BaseLayer = layers.BaseLayer{Contents: sp.Data, Payload: data[total:]}
	sp.IET = NoTimecode
	if sp.HasSecondaryHeader && total >= PrimaryHeaderLength+CdsTimecodeLength {
		sp.IET = DecodeCdsTimecode(data[PrimaryHeaderLength : PrimaryHeaderLength+CdsTimecodeLength])
	}

	log.Debug("DecodeSpacePacket: apid: %d seq: %s count: %d len: %d iet: %d",
		sp.Apid, sp.SeqFlags, sp.SeqCount, sp.Length, sp.IET)

	return nil
}

// SerializeTo writes the packet to the SerializeBuffer. The primary header
// words are re-encoded from the decoded fields so a modified packet stays
// consistent with its raw data payload.
func (sp *SpacePacket) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	buf, err := b.AppendBytes(sp.TotalLength())
	if err != nil {
		return err
	}
	copy(buf, sp.Data)

	word0 := uint16(sp.Version)<<13 | uint16(sp.Type)<<12 | uint16(sp.Apid)&0x7ff
	if sp.HasSecondaryHeader {
		word0 |= 1 << 11
	}
	binary.BigEndian.PutUint16(buf[0:2], word0)
	binary.BigEndian.PutUint16(buf[2:4], uint16(sp.SeqFlags)<<14|sp.SeqCount&0x3fff)
	binary.BigEndian.PutUint16(buf[4:6], sp.Length)
	return nil
}

// DecodeCdsTimecode converts a JPSS day segmented timecode to IET
// microseconds. The CDS epoch equals the IET epoch so no offset applies.
func DecodeCdsTimecode(buf []byte) int64 {
	days := int64(binary.BigEndian.Uint16(buf[0:2]))
	millis := int64(binary.BigEndian.Uint32(buf[2:6]))
	micros := int64(binary.BigEndian.Uint16(buf[6:8]))
	return days*86400000000 + millis*1000 + micros
}

// EncodeCdsTimecode is the inverse of DecodeCdsTimecode.
func EncodeCdsTimecode(buf []byte, iet int64) {
	days := iet / 86400000000
	rem := iet % 86400000000
	binary.BigEndian.PutUint16(buf[0:2], uint16(days))
	binary.BigEndian.PutUint32(buf[2:6], uint32(rem/1000))
	binary.BigEndian.PutUint16(buf[6:8], uint16(rem%1000))
}

// BuildPacket assembles a raw space packet from its parts: primary
// header, CDS timecode when iet is not NoTimecode, then payload bytes.
func BuildPacket(apid uint16, flags SeqFlags, count uint16, iet int64, payload []byte) []byte {
	dataLen := len(payload)
	if iet != NoTimecode {
		dataLen += CdsTimecodeLength
	}
	buf := make([]byte, PrimaryHeaderLength+dataLen)
	word0 := apid & 0x7ff
	if iet != NoTimecode {
		word0 |= 1 << 11
	}
	binary.BigEndian.PutUint16(buf[0:2], word0)
	binary.BigEndian.PutUint16(buf[2:4], uint16(flags)<<14|count&0x3fff)
	binary.BigEndian.PutUint16(buf[4:6], uint16(dataLen-1))
	off := PrimaryHeaderLength
	if iet != NoTimecode {
		EncodeCdsTimecode(buf[off:off+CdsTimecodeLength], iet)
		off += CdsTimecodeLength
	}
	copy(buf[off:], payload)
	return buf
}

// DecodeSpacePacketLayer ...
func DecodeSpacePacketLayer(data []byte, p gopacket.PacketBuilder) error {
	sp := &SpacePacket{}
	if err := sp.DecodeFromBytes(data, p); err != nil {
		return err
	}
	p.AddLayer(sp)
	return nil
}
