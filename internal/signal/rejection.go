// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package signal

// RejectionStack is an ordered list of C×C rejection matrices. Their product
// premultiplies a spatial filter vector before it is applied to a chunk.
// The stack may be replaced wholesale between blocks; it must never be
// mutated while a tick is in flight.
type RejectionStack struct {
	C        int
	Matrices [][][]float64
}

func NewRejectionStack(c int) *RejectionStack {
	return &RejectionStack{C: c}
}

// Push appends a new rejection matrix, making it the innermost factor of the
// product (applied first when projecting a vector).
func (r *RejectionStack) Push(m [][]float64) {
	r.Matrices = append(r.Matrices, m)
}

func (r *RejectionStack) Reset() {
	r.Matrices = nil
}

// Apply computes (∏R)·w without materializing the product matrix: it walks
// the stack from the innermost (most recently pushed) matrix outward.
func (r *RejectionStack) Apply(w []float64) []float64 {
	out := make([]float64, len(w))
	copy(out, w)
	for i := len(r.Matrices) - 1; i >= 0; i-- {
		out = matVec(r.Matrices[i], out)
	}
	return out
}

func matVec(m [][]float64, v []float64) []float64 {
	out := make([]float64, len(m))
	for i := range m {
		var sum float64
		for j := range m[i] {
			if j >= len(v) {
				break
			}
			sum += m[i][j] * v[j]
		}
		out[i] = sum
	}
	return out
}
