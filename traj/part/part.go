/*
 * part.go, part of partview
 *
 * Copyright 2026 The partview authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License  as published by
 * the Free Software Foundation; either version 2.1 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston,
 * MA 02110-1301, USA.
 */

package part

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	Magic      = "PART"
	Version    uint32 = 1
	HeaderSize        = 28
	RecordSize        = 21
)

var order = binary.LittleEndian

// Header is the fixed part at the beginning of each frame file.
type Header struct {
	Magic   [4]byte
	Version uint32
	Step    uint64
	Count   uint64
	Flags   uint32 //reserved, never checked
}

// State holds the bit flags describing what a particle was doing when the
// snapshot was taken.
type State uint8

const (
	Alive      State = 1 << iota //moves, exerts and experiences forces
	Dead                         //no movement or interaction
	Passive                      //moves, experiences forces but exerts none
	Stationary                   //exerts forces but does not move
)

func (s State) String() string {
	if s == 0 {
		return "none"
	}
	names := []string{"alive", "dead", "passive", "stationary"}
	var set []string
	for i, n := range names {
		if s&(1<<i) != 0 {
			set = append(set, n)
		}
	}
	if rest := s &^ (Alive | Dead | Passive | Stationary); rest != 0 {
		set = append(set, fmt.Sprintf("0x%02x", uint8(rest)))
	}
	return strings.Join(set, "|")
}

// Record is one particle in a frame.
type Record struct {
	X, Y, Z float32
	Type    uint32
	ID      uint32
	State   State
}

// Frame is one decoded snapshot: its header and the particle records,
// in the order they appear in the file.
type Frame struct {
	Header  Header
	Records []Record
}

// NewFrame returns a version 1 frame for the given step with the given
// records. The records are not copied.
func NewFrame(step uint64, recs []Record) *Frame {
	F := new(Frame)
	copy(F.Header.Magic[:], Magic)
	F.Header.Version = Version
	F.Header.Step = step
	F.Header.Count = uint64(len(recs))
	F.Records = recs
	return F
}

// Len returns the number of particles in the frame.
func (F *Frame) Len() int {
	return len(F.Records)
}

// Step returns the simulation step of the frame.
func (F *Frame) Step() uint64 {
	return F.Header.Step
}

//Positions returns the particle positions. If a slice with enough capacity is given
//it is used to store the result, otherwise a new one is allocated.
func (F *Frame) Positions(dest ...[]r3.Vec) []r3.Vec {
	var ret []r3.Vec
	if len(dest) > 0 && cap(dest[0]) >= len(F.Records) {
		ret = dest[0][:len(F.Records)]
	} else {
		ret = make([]r3.Vec, len(F.Records))
	}
	for i, r := range F.Records {
		ret[i] = r3.Vec{X: float64(r.X), Y: float64(r.Y), Z: float64(r.Z)}
	}
	return ret
}

//Types returns the type identifier of each particle. Same rules as Positions
//for the optional destination slice.
func (F *Frame) Types(dest ...[]uint32) []uint32 {
	var ret []uint32
	if len(dest) > 0 && cap(dest[0]) >= len(F.Records) {
		ret = dest[0][:len(F.Records)]
	} else {
		ret = make([]uint32, len(F.Records))
	}
	for i, r := range F.Records {
		ret[i] = r.Type
	}
	return ret
}

// Census counts the particles of each type and of each state.
func (F *Frame) Census() (types map[uint32]int, states map[State]int) {
	types = make(map[uint32]int)
	states = make(map[State]int)
	for _, r := range F.Records {
		types[r.Type]++
		states[r.State]++
	}
	return types, states
}

// FileName returns the name the simulation gives to the frame of the given
// step, for instance FileName("halley", 20) is "halley_00020.bin".
func FileName(base string, step uint64) string {
	return fmt.Sprintf("%s_%05d.bin", base, step)
}

// Decoder turns the bytes of a frame file into a Frame.
// The zero value accepts any version number.
type Decoder struct {
	//StrictVersion makes the decoder reject versions other than Version
	//with ErrUnsupportedVersion instead of trying to read them anyway.
	StrictVersion bool
}

// Decode decodes b with the default Decoder.
func Decode(b []byte) (*Frame, error) {
	return Decoder{}.Decode(b)
}

// ReadFile reads and decodes a frame file with the default Decoder.
func ReadFile(name string) (*Frame, error) {
	return Decoder{}.ReadFile(name)
}

// ReadHeader reads only the header of a frame file with the default Decoder.
func ReadHeader(name string) (Header, error) {
	return Decoder{}.ReadHeader(name)
}

//Decode parses a whole frame file held in b. On any error no frame is returned.
//The returned frame does not reference b.
func (d Decoder) Decode(b []byte) (*Frame, error) {
	h, err := d.decodeHeader(b)
	if err != nil {
		return nil, err
	}
	avail := uint64(len(b)-HeaderSize) / RecordSize
	if h.Count > avail {
		return nil, newError(ErrTruncatedFile, "",
			fmt.Sprintf("header declares %d records, file holds %d", h.Count, avail), "Decode")
	}
	F := &Frame{Header: h, Records: make([]Record, h.Count)}
	off := HeaderSize
	for i := range F.Records {
		r := b[off : off+RecordSize]
		F.Records[i] = Record{
			X:     math.Float32frombits(order.Uint32(r[0:4])),
			Y:     math.Float32frombits(order.Uint32(r[4:8])),
			Z:     math.Float32frombits(order.Uint32(r[8:12])),
			Type:  order.Uint32(r[12:16]),
			ID:    order.Uint32(r[16:20]),
			State: State(r[20]),
		}
		off += RecordSize
	}
	return F, nil
}

// DecodeReader reads r until EOF and decodes what it got.
// Read errors are reported as ErrTruncatedFile.
func (d Decoder) DecodeReader(r io.Reader) (*Frame, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, newError(ErrTruncatedFile, "", err.Error(), "DecodeReader", err)
	}
	F, err := d.Decode(b)
	if err != nil {
		return nil, errDecorate(err, "DecodeReader")
	}
	return F, nil
}

//ReadFile reads the file name, decompressing it if the extension asks for it, and
//decodes it. The file is read in one go, frames are small. Any I/O error is reported as
//ErrTruncatedFile, since the files are not expected to change once written.
func (d Decoder) ReadFile(name string) (*Frame, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, newError(ErrTruncatedFile, name, err.Error(), "ReadFile", err)
	}
	b, err = decompress(CodecFor(name), b)
	if err != nil {
		return nil, newError(ErrTruncatedFile, name, "can't decompress: "+err.Error(), "ReadFile", err)
	}
	F, err := d.Decode(b)
	if err != nil {
		e := err.(*Error)
		e.filename = name
		e.Decorate("ReadFile")
		return nil, e
	}
	return F, nil
}

// ReadHeader reads and checks only the header of the file name.
// The record count is not checked against the file size.
func (d Decoder) ReadHeader(name string) (Header, error) {
	f, err := os.Open(name)
	if err != nil {
		return Header{}, newError(ErrTruncatedFile, name, err.Error(), "ReadHeader", err)
	}
	defer f.Close()
	src, err := newSource(CodecFor(name), f)
	if err != nil {
		return Header{}, newError(ErrTruncatedFile, name, "can't decompress: "+err.Error(), "ReadHeader", err)
	}
	defer src.Close()
	b := make([]byte, HeaderSize)
	n, err := io.ReadFull(src, b)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return Header{}, newError(ErrTruncatedFile, name, err.Error(), "ReadHeader", err)
	}
	h, err := d.decodeHeader(b[:n])
	if err != nil {
		e := err.(*Error)
		e.filename = name
		e.Decorate("ReadHeader")
		return Header{}, e
	}
	return h, nil
}

//decodeHeader checks the magic number first, so a foreign file is
//reported as such even if it is shorter than a header.
func (d Decoder) decodeHeader(b []byte) (Header, error) {
	var h Header
	if len(b) >= 4 && string(b[:4]) != Magic {
		return h, newError(ErrInvalidMagic, "", fmt.Sprintf("got %q", b[:4]), "decodeHeader")
	}
	if len(b) < HeaderSize {
		return h, newError(ErrTruncatedFile, "", fmt.Sprintf("%d bytes, header needs %d", len(b), HeaderSize), "decodeHeader")
	}
	copy(h.Magic[:], b[0:4])
	h.Version = order.Uint32(b[4:8])
	h.Step = order.Uint64(b[8:16])
	h.Count = order.Uint64(b[16:24])
	h.Flags = order.Uint32(b[24:28])
	if d.StrictVersion && h.Version != Version {
		return h, newError(ErrUnsupportedVersion, "", fmt.Sprintf("version %d, only %d is supported", h.Version, Version), "decodeHeader")
	}
	return h, nil
}

//Encode returns the file representation of F. The magic number and the count
//written are always Magic and the actual number of records, whatever F.Header says.
func Encode(F *Frame) []byte {
	b := make([]byte, HeaderSize+RecordSize*len(F.Records))
	copy(b[0:4], Magic)
	order.PutUint32(b[4:8], F.Header.Version)
	order.PutUint64(b[8:16], F.Header.Step)
	order.PutUint64(b[16:24], uint64(len(F.Records)))
	order.PutUint32(b[24:28], F.Header.Flags)
	off := HeaderSize
	for _, r := range F.Records {
		p := b[off : off+RecordSize]
		order.PutUint32(p[0:4], math.Float32bits(r.X))
		order.PutUint32(p[4:8], math.Float32bits(r.Y))
		order.PutUint32(p[8:12], math.Float32bits(r.Z))
		order.PutUint32(p[12:16], r.Type)
		order.PutUint32(p[16:20], r.ID)
		p[20] = byte(r.State)
		off += RecordSize
	}
	return b
}

// Write writes the encoded frame to w, uncompressed.
func Write(w io.Writer, F *Frame) error {
	if F == nil {
		return newError(ErrNilFrame, "", "", "Write")
	}
	if _, err := w.Write(Encode(F)); err != nil {
		e := newError(ErrWrite, "", err.Error(), "Write", err)
		e.critical = true
		return e
	}
	return nil
}

//WriteFile writes F to the file name, compressed according to the file extension
//(see CodecFor).
func WriteFile(name string, F *Frame) error {
	if F == nil {
		return newError(ErrNilFrame, name, "", "WriteFile")
	}
	b, err := compress(CodecFor(name), Encode(F))
	if err != nil {
		e := newError(ErrWrite, name, err.Error(), "WriteFile", err)
		e.critical = true
		return e
	}
	if err := os.WriteFile(name, b, 0644); err != nil {
		e := newError(ErrWrite, name, err.Error(), "WriteFile", err)
		e.critical = true
		return e
	}
	return nil
}
