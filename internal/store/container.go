// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package store implements the engine's own grouped, append-only binary
// container: no HDF5 (or other third-party container format) library exists
// anywhere in the example corpus, so the on-disk layout is a small
// self-describing framing around etensor.Float32, the tensor type the
// recorder holds each dataset in while a block is running.
package store

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/emer/etable/etensor"
)

const magic = "NFBK1\n"

// Container is an append-only binary store. Every write appends one framed
// record; there is no random-access index, matching the append-only,
// flush-per-block write pattern the sequencer uses.
type Container struct {
	f *os.File
}

// Create truncates (or creates) the file at path and writes the container
// magic header.
func Create(path string) (*Container, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("store: create %s: %w", path, err)
	}
	if _, err := f.WriteString(magic); err != nil {
		f.Close()
		return nil, err
	}
	return &Container{f: f}, nil
}

func (c *Container) Close() error { return c.f.Close() }

func (c *Container) Sync() error { return c.f.Sync() }

// WriteAttrString writes a root-level (group "") string attribute.
func (c *Container) WriteAttrString(name, value string) error {
	return writeRecord(c.f, "", name, "string", []int{len(value)}, []byte(value))
}

// WriteAttrFloat writes a root-level scalar float attribute.
func (c *Container) WriteAttrFloat(name string, value float64) error {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(value))
	return writeRecord(c.f, "", name, "float64", []int{1}, buf)
}

// WriteTensorFloat32 writes a named dataset within a group, serializing the
// tensor's shape, element type and raw little-endian float32 payload.
func (c *Container) WriteTensorFloat32(group, dataset string, t *etensor.Float32) error {
	shape := shapeOf(t)
	data := t.Values
	buf := make([]byte, 4*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return writeRecord(c.f, group, dataset, "float32", shape, buf)
}

func shapeOf(t *etensor.Float32) []int {
	n := t.NumDims()
	shp := make([]int, n)
	for i := 0; i < n; i++ {
		shp[i] = t.Dim(i)
	}
	return shp
}

// writeRecord frames one dataset as:
//
//	group (string), dataset (string), dtype (string),
//	ndim (int32), shape[ndim] (int32 each),
//	payload length (int64), payload bytes
func writeRecord(w io.Writer, group, dataset, dtype string, shape []int, payload []byte) error {
	if err := writeString(w, group); err != nil {
		return err
	}
	if err := writeString(w, dataset); err != nil {
		return err
	}
	if err := writeString(w, dtype); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(shape))); err != nil {
		return err
	}
	for _, s := range shape {
		if err := binary.Write(w, binary.LittleEndian, int32(s)); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, int64(len(payload))); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, int32(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}
