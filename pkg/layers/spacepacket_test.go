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
	"bytes"
	"testing"

	"github.com/google/gopacket"
)

type noopFeedback struct{}

func (noopFeedback) SetTruncated() {}

func TestDecodeSpacePacket(t *testing.T) {
	iet := int64(1698019234000000)
	raw := BuildPacket(561, SeqStandalone, 42, iet, []byte{0xde, 0xad})

	sp := &SpacePacket{}
	if err := sp.DecodeFromBytes(raw, noopFeedback{}); err != nil {
		t.Fatalf("decoding: %s", err)
	}
	if sp.Apid != 561 {
		t.Errorf("expected apid 561, got %d", sp.Apid)
	}
	if sp.SeqFlags != SeqStandalone {
		t.Errorf("expected standalone, got %s", sp.SeqFlags)
	}
	if sp.SeqCount != 42 {
		t.Errorf("expected count 42, got %d", sp.SeqCount)
	}
	if !sp.HasSecondaryHeader {
		t.Error("expected secondary header flag")
	}
	if sp.IET != iet {
		t.Errorf("expected iet %d, got %d", iet, sp.IET)
	}
	if sp.TotalLength() != len(raw) {
		t.Errorf("expected total length %d, got %d", len(raw), sp.TotalLength())
	}
}

func TestDecodeNoTimecode(t *testing.T) {
	raw := BuildPacket(11, SeqFirst, 0, NoTimecode, []byte{1, 2, 3})
	sp := &SpacePacket{}
	if err := sp.DecodeFromBytes(raw, noopFeedback{}); err != nil {
		t.Fatalf("decoding: %s", err)
	}
	if sp.IET != NoTimecode {
		t.Errorf("expected no timecode, got %d", sp.IET)
	}
	if sp.SeqFlags != SeqFirst {
		t.Errorf("expected first, got %s", sp.SeqFlags)
	}
}

func TestDecodeTruncated(t *testing.T) {
	raw := BuildPacket(11, SeqStandalone, 0, NoTimecode, []byte{1, 2, 3})
	sp := &SpacePacket{}
	if err := sp.DecodeFromBytes(raw[:len(raw)-1], noopFeedback{}); err == nil {
		t.Error("expected error for truncated packet")
	}
	if err := sp.DecodeFromBytes(raw[:4], noopFeedback{}); err == nil {
		t.Error("expected error for short header")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	raw := BuildPacket(826, SeqLast, 16383, 1698019234000123, []byte{9, 8, 7})
	sp := &SpacePacket{}
	if err := sp.DecodeFromBytes(raw, noopFeedback{}); err != nil {
		t.Fatalf("decoding: %s", err)
	}

	buf := gopacket.NewSerializeBuffer()
	if err := sp.SerializeTo(buf, gopacket.SerializeOptions{}); err != nil {
		t.Fatalf("serializing: %s", err)
	}
	if !bytes.Equal(buf.Bytes(), raw) {
		t.Errorf("round trip mismatch:\nin:  %x\nout: %x", raw, buf.Bytes())
	}
}

func TestCdsTimecode(t *testing.T) {
	for _, iet := range []int64{0, 1698019234000000, 86400000000 - 1} {
		buf := make([]byte, CdsTimecodeLength)
		EncodeCdsTimecode(buf, iet)
		if got := DecodeCdsTimecode(buf); got != iet {
			t.Errorf("timecode round trip %d: got %d", iet, got)
		}
	}
}
