// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

// ChannelsSelector sits between the inlet and the signal pipeline: it maps
// the inlet's raw channel vector onto the session's configured channel set,
// applying an exclusion list and optional average-reference subtraction.
type ChannelsSelector struct {
	InletLabels []string
	Selected    []string
	AuxLabels   []string
	excluded    map[string]bool
	avgRef      bool
	selectIdx   []int
	auxIdx      []int
}

func NewChannelsSelector(inletLabels, selected, excluded []string, averageReference bool) *ChannelsSelector {
	exclSet := make(map[string]bool, len(excluded))
	for _, e := range excluded {
		exclSet[e] = true
	}
	labelIdx := make(map[string]int, len(inletLabels))
	for i, l := range inletLabels {
		labelIdx[l] = i
	}
	selectSet := make(map[string]bool, len(selected))
	selectIdx := make([]int, 0, len(selected))
	for _, s := range selected {
		if idx, ok := labelIdx[s]; ok {
			selectIdx = append(selectIdx, idx)
			selectSet[s] = true
		}
	}
	var auxIdx []int
	var auxLabels []string
	for i, l := range inletLabels {
		if !selectSet[l] {
			auxIdx = append(auxIdx, i)
			auxLabels = append(auxLabels, l)
		}
	}
	return &ChannelsSelector{
		InletLabels: inletLabels,
		Selected:    selected,
		AuxLabels:   auxLabels,
		excluded:    exclSet,
		avgRef:      averageReference,
		selectIdx:   selectIdx,
		auxIdx:      auxIdx,
	}
}

// Project maps a (k×C_inlet) raw chunk onto the (k×C_selected) EEG chunk and
// the (k×C′) auxiliary chunk of every inlet channel outside the selected
// ChannelSet, per SPEC_FULL.md's ChannelsSelector contract.
func (cs *ChannelsSelector) Project(raw [][]float64) (eeg [][]float64, aux [][]float64) {
	eeg = make([][]float64, len(raw))
	aux = make([][]float64, len(raw))
	for i, row := range raw {
		var refMean float64
		if cs.avgRef {
			var sum float64
			n := 0
			for _, idx := range cs.selectIdx {
				if idx >= len(row) || cs.excluded[cs.InletLabels[idx]] {
					continue
				}
				sum += row[idx]
				n++
			}
			if n > 0 {
				refMean = sum / float64(n)
			}
		}
		eegRow := make([]float64, len(cs.selectIdx))
		for j, idx := range cs.selectIdx {
			if idx < len(row) {
				eegRow[j] = row[idx] - refMean
			}
		}
		eeg[i] = eegRow

		auxRow := make([]float64, len(cs.auxIdx))
		for j, idx := range cs.auxIdx {
			if idx < len(row) {
				auxRow[j] = row[idx]
			}
		}
		aux[i] = auxRow
	}
	return eeg, aux
}

func (cs *ChannelsSelector) NumChannels() int    { return len(cs.selectIdx) }
func (cs *ChannelsSelector) NumAuxChannels() int { return len(cs.auxIdx) }
