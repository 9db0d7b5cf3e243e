/*
 * framestore.go, part of partview.
 *
 * Copyright 2026 The partview authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package framestore finds the frame files of a trajectory, that is, the files with a
//given suffix in one directory, and puts them in playback order.
package framestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rmera/partview/traj/part"
)

var ErrDirectoryNotFound = errors.New("directory not found")

// Order is the policy used to sort the frame files.
type Order int

const (
	//ByName sorts by file name, ascending. This is what the simulation
	//expects, since it names the files after the zero-padded step.
	ByName Order = iota
	//ByStep reads the header of every file and sorts by the step
	//stored there. Files with the same step, or with unreadable headers,
	//keep their name order. Costs one header read per file at scan time.
	ByStep
)

func (o Order) String() string {
	if o == ByStep {
		return "step"
	}
	return "name"
}

// ParseOrder understands "name" and "step".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "", "name":
		return ByName, nil
	case "step":
		return ByStep, nil
	}
	return ByName, fmt.Errorf("framestore: unknown order %q (want name or step)", s)
}

type options struct {
	suffixes   []string
	compressed bool
	order      Order
	decoder    part.Decoder
}

// Option changes how Discover works.
type Option func(*options)

// WithSuffixes sets the accepted file name suffixes. The default is ".bin".
func WithSuffixes(s ...string) Option {
	return func(o *options) {
		if len(s) > 0 {
			o.suffixes = s
		}
	}
}

//WithCompressed also accepts the .zst and .gz variants of every accepted suffix,
//whatever order the options come in. If a frame is there both compressed and
//uncompressed only one copy is played, the zstd one first, then gzip.
func WithCompressed() Option {
	return func(o *options) { o.compressed = true }
}

// WithOrder sets the sort policy.
func WithOrder(ord Order) Option {
	return func(o *options) { o.order = ord }
}

// WithDecoder sets the decoder used to read headers for ByStep.
func WithDecoder(d part.Decoder) Option {
	return func(o *options) { o.decoder = d }
}

//Discover returns the paths of the frame files in dir, in playback order.
//It returns an *Error wrapping ErrDirectoryNotFound if dir does not exist or
//is not a directory. A directory without frame files gives an empty, non-nil,
//slice and no error.
func Discover(dir string, opts ...Option) ([]string, error) {
	o := options{suffixes: []string{part.RawSuffix}}
	for _, f := range opts {
		f(&o)
	}
	if o.compressed {
		o.suffixes = compressedSuffixes(o.suffixes)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &Error{dir: dir, cause: err}
	}
	if !info.IsDir() {
		return nil, &Error{dir: dir, cause: fmt.Errorf("%s is not a directory", dir)}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &Error{dir: dir, cause: err}
	}
	//ReadDir already sorts by name.
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !matches(e.Name(), o.suffixes) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if o.compressed {
		files = uniqueFrames(files)
	}
	if o.order == ByStep {
		sortByStep(files, o.decoder)
	}
	return files, nil
}

func matches(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

func compressedSuffixes(suffixes []string) []string {
	ret := make([]string, 0, 3*len(suffixes))
	for _, s := range suffixes {
		ret = append(ret, s, s+".zst", s+".gz")
	}
	return ret
}

//codecRank is the preference among copies of the same frame.
func codecRank(c part.Codec) int {
	switch c {
	case part.Zstd:
		return 2
	case part.Gzip:
		return 1
	}
	return 0
}

//uniqueFrames keeps one file per frame, the files being the same frame if
//their names only differ in the compression extension. The survivor takes
//the place of the first copy in the list.
func uniqueFrames(files []string) []string {
	seen := make(map[string]int, len(files))
	ret := files[:0]
	for _, f := range files {
		c := part.CodecFor(f)
		stem := f
		if c != part.Raw {
			stem = strings.TrimSuffix(f, filepath.Ext(f))
		}
		i, ok := seen[stem]
		if !ok {
			seen[stem] = len(ret)
			ret = append(ret, f)
			continue
		}
		if codecRank(c) > codecRank(part.CodecFor(ret[i])) {
			ret[i] = f
		}
	}
	return ret
}

//sortByStep sorts in place. Unreadable files get sorted as if their step were
//larger than any other, so they end up at the end in name order. The player
//will report them when their turn comes.
func sortByStep(files []string, d part.Decoder) {
	type keyed struct {
		name string
		step uint64
		ok   bool
	}
	k := make([]keyed, len(files))
	for i, f := range files {
		h, err := d.ReadHeader(f)
		k[i] = keyed{name: f, step: h.Step, ok: err == nil}
	}
	sort.SliceStable(k, func(i, j int) bool {
		if k[i].ok != k[j].ok {
			return k[i].ok
		}
		return k[i].step < k[j].step
	})
	for i := range k {
		files[i] = k[i].name
	}
}

//Error reports a trajectory directory that can't be used. It fullfills partview.Error
type Error struct {
	dir   string
	cause error
	deco  []string
}

func (err *Error) Error() string {
	return fmt.Sprintf("framestore: %s %s: %v", ErrDirectoryNotFound, err.dir, err.cause)
}

//Decorate Adds new information to the error
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Dir returns the offending path.
func (err *Error) Dir() string { return err.dir }

// Critical is always true, nothing can be played without a directory.
func (err *Error) Critical() bool { return true }

func (err *Error) Unwrap() []error { return []error{ErrDirectoryNotFound, err.cause} }
