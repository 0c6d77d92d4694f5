// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protocol

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroup_Expand_RoundRobinInterleavesByPosition(t *testing.T) {
	g := &Group{
		Name:   "alternating",
		List:   []string{"baseline", "feedback"},
		Counts: []int{2, 3},
	}
	out := g.Expand(rand.New(rand.NewSource(1)))
	assert.Equal(t, []string{"baseline", "feedback", "baseline", "feedback", "feedback"}, out)
}

func TestGroup_Expand_ShuffleProducesSameMultiset(t *testing.T) {
	g := &Group{
		Name:    "shuffled",
		List:    []string{"a", "b"},
		Counts:  []int{2, 2},
		Shuffle: true,
	}
	out := g.Expand(rand.New(rand.NewSource(42)))
	counts := map[string]int{}
	for _, name := range out {
		counts[name]++
	}
	assert.Equal(t, 2, counts["a"])
	assert.Equal(t, 2, counts["b"])
	assert.Len(t, out, 4)
}

func TestGroup_Expand_SplitByInsertsBetweenElements(t *testing.T) {
	g := &Group{
		Name:    "withsplit",
		List:    []string{"a", "b", "c"},
		SplitBy: "rest",
	}
	out := g.Expand(rand.New(rand.NewSource(1)))
	assert.Equal(t, []string{"a", "rest", "b", "rest", "c"}, out)
}

func TestGroup_Expand_DefaultCountIsOne(t *testing.T) {
	g := &Group{Name: "plain", List: []string{"x", "y"}}
	out := g.Expand(rand.New(rand.NewSource(1)))
	assert.Equal(t, []string{"x", "y"}, out)
}

func TestExpandSequence_ResolvesGroupsAndPassesPlainNamesThrough(t *testing.T) {
	groups := map[string]*Group{
		"pair": {Name: "pair", List: []string{"a", "b"}},
	}
	out := ExpandSequence([]string{"intro", "pair", "outro"}, groups, rand.New(rand.NewSource(1)))
	assert.Equal(t, []string{"intro", "a", "b", "outro"}, out)
}
