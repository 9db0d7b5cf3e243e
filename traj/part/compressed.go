/*
 * compressed.go, part of partview
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
	"bufio"
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Codec is the compression applied to a whole frame file.
type Codec int

const (
	Raw Codec = iota
	Zstd
	Gzip
)

//Suffixes of the frame files each codec produces.
const (
	RawSuffix  = ".bin"
	ZstdSuffix = ".bin.zst"
	GzipSuffix = ".bin.gz"
)

//CodecFor deduces the codec from the extension of name: .zst (or .zstd) means
//z-standard, .gz means gzip. Anything else is assumed to be an uncompressed file.
func CodecFor(name string) Codec {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zst", ".zstd":
		return Zstd
	case ".gz":
		return Gzip
	default:
		return Raw
	}
}

// ParseCodec understands "raw", "zst" and "gz".
func ParseCodec(s string) (Codec, bool) {
	switch strings.ToLower(s) {
	case "raw", "bin", "":
		return Raw, true
	case "zst", "zstd":
		return Zstd, true
	case "gz", "gzip":
		return Gzip, true
	}
	return Raw, false
}

// Suffix returns the full suffix (".bin" included) of files with codec c.
func (c Codec) Suffix() string {
	switch c {
	case Zstd:
		return ZstdSuffix
	case Gzip:
		return GzipSuffix
	}
	return RawSuffix
}

func (c Codec) String() string {
	switch c {
	case Zstd:
		return "zst"
	case Gzip:
		return "gz"
	}
	return "raw"
}

func decompress(c Codec, b []byte) ([]byte, error) {
	switch c {
	case Zstd:
		d, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer d.Close()
		return d.DecodeAll(b, nil)
	case Gzip:
		r, err := gzip.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	}
	return b, nil
}

func compress(c Codec, b []byte) ([]byte, error) {
	switch c {
	case Zstd:
		w, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return nil, err
		}
		defer w.Close()
		return w.EncodeAll(b, nil), nil
	case Gzip:
		var buf bytes.Buffer
		w, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(b); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return b, nil
}

//Also, why couldn't *zstd.Decoder implement io.ReadCloser? :-(
type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

//newSource returns a reader that yields the decompressed content of r.
//Closing it does not close r.
func newSource(c Codec, r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	switch c {
	case Zstd:
		d, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		return zstdCloser{d}, nil
	case Gzip:
		g, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return io.NopCloser(br), nil
}
