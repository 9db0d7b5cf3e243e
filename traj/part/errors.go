/*
 * errors.go, part of partview
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
	"errors"
	"fmt"
	"strings"
)

// Kinds of errors. Use errors.Is to tell them apart.
var (
	ErrInvalidMagic       = errors.New("invalid magic number, not a particle file")
	ErrTruncatedFile      = errors.New("truncated file")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrNilFrame           = errors.New("given nil frame")
	ErrWrite              = errors.New("can't write frame")
)

//Error is the general structure for PART frame errors. It fullfills partview.Error and partview.FrameError
type Error struct {
	kind     error
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
	cause    error
}

func newError(kind error, filename, message, caller string, cause ...error) *Error {
	e := &Error{kind: kind, filename: filename, message: message, deco: []string{caller}}
	if len(cause) > 0 {
		e.cause = cause[0]
	}
	return e
}

func (err *Error) Error() string {
	msg := err.kind.Error()
	if err.message != "" {
		msg += ": " + err.message
	}
	if err.filename == "" {
		return "part: " + msg
	}
	return fmt.Sprintf("part file %s: %s", err.filename, msg)
}

//Decorate Adds new information to the error
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Trace returns the decorations, innermost first, joined by " <- "
func (err *Error) Trace() string {
	return strings.Join(err.deco, " <- ")
}

//FileName returns the file to which the failing frame was associated
func (err *Error) FileName() string { return err.filename }

//Format returns the format of the file (always "part") associated to the error
func (err *Error) Format() string { return "part" }

//Critical returns true if the error is critical, false otherwise.
//Decoding errors concern one frame only and are never critical.
func (err *Error) Critical() bool { return err.critical }

// Unwrap exposes the error kind and, if any, the underlying error.
func (err *Error) Unwrap() []error {
	if err.cause != nil {
		return []error{err.kind, err.cause}
	}
	return []error{err.kind}
}

//errDecorate is a helper function that asserts that the error is
//a *Error and decorates the error with the caller's name before returning it.
//Other errors are returned untouched.
func errDecorate(err error, caller string) error {
	var e *Error
	if errors.As(err, &e) {
		e.Decorate(caller)
		return e
	}
	return err
}
