// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protocol

// Image and Video are timed blocks with no derived-signal dependency; they
// exist purely to occupy a slot in the sequence and record elapsed samples.
type Image struct {
	Common
	Path string
}

func (i *Image) OnEnter(ctx Context)             {}
func (i *Image) OnTick(ctx Context, k int) Advisory { return Continue }
func (i *Image) OnExit(ctx Context)              {}

type Video struct {
	Common
	Path string
}

func (v *Video) OnEnter(ctx Context)             {}
func (v *Video) OnTick(ctx Context, k int) Advisory { return Continue }
func (v *Video) OnExit(ctx Context)              {}
