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

// Package pds reads and writes PDS files, flat concatenations of raw
// CCSDS space packets.
package pds

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/ssec-jpss/go-rdr/pkg/layers"
	"github.com/ssec-jpss/go-rdr/pkg/log"
)

// Reader streams space packets from one or more PDS files, in file order.
type Reader struct {
	paths []string
	file  *os.File
	buf   *bufio.Reader
	head  []byte
}

func NewReader(paths ...string) *Reader {
	return &Reader{paths: paths, head: make([]byte, layers.PrimaryHeaderLength)}
}

func (r *Reader) nextFile() error {
	if r.file != nil {
		r.file.Close()
		r.file = nil
	}
	if len(r.paths) == 0 {
		return io.EOF
	}
	path := r.paths[0]
	r.paths = r.paths[1:]
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	log.Debug("reading packets from %s", path)
	r.file = file
	r.buf = bufio.NewReader(file)
	return nil
}

type truncFeedback struct{}

func (truncFeedback) SetTruncated() {}

// Next returns the next packet in the stream, or io.EOF after the last
// packet of the last file.
func (r *Reader) Next() (*layers.SpacePacket, error) {
	for r.file == nil {
		if err := r.nextFile(); err != nil {
			return nil, err
		}
	}
	if _, err := io.ReadFull(r.buf, r.head); err != nil {
		if err == io.EOF {
			r.file.Close()
			r.file = nil
			return r.Next()
		}
		return nil, err
	}
	total, err := layers.PacketLength(r.head)
	if err != nil {
		return nil, err
	}
	raw := make([]byte, total)
	copy(raw, r.head)
	if _, err := io.ReadFull(r.buf, raw[layers.PrimaryHeaderLength:]); err != nil {
		return nil, fmt.Errorf("reading packet body: %w", err)
	}

	sp := &layers.SpacePacket{}
	if err := sp.DecodeFromBytes(raw, truncFeedback{}); err != nil {
		return nil, err
	}
	return sp, nil
}

// Close releases the currently open input file, if any.
func (r *Reader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// Filename returns the PDS output name for a satellite and a product id
// or apid, covering [begin, end) IET microseconds.
func Filename(satid, label string, begin, end int64) string {
	return fmt.Sprintf("P%s_%s_%d_%d.pds", satid, label, begin, end)
}

// Writer appends raw packets to a PDS output file.
type Writer struct {
	file *os.File
	buf  *bufio.Writer
}

func NewWriter(path string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Writer{file: file, buf: bufio.NewWriter(file)}, nil
}

func (w *Writer) Write(pkt *layers.SpacePacket) error {
	_, err := w.buf.Write(pkt.Data)
	return err
}

func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
