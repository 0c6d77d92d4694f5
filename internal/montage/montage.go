// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package montage loads named channel-label presets from a bundled YAML
// catalog, independent of any one session's settings document.
package montage

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Montage is a named, ordered list of channel labels.
type Montage struct {
	Name     string   `yaml:"name"`
	Channels []string `yaml:"channels"`
}

// Catalog is a loaded set of montages keyed by name.
type Catalog struct {
	byName map[string]Montage
}

type catalogDoc struct {
	Montages []Montage `yaml:"montages"`
}

// Load parses a YAML catalog document of the form:
//
//	montages:
//	  - name: standard_10_20_19
//	    channels: [Fp1, Fp2, F3, F4, ...]
func Load(data []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("montage: parse catalog: %w", err)
	}
	byName := make(map[string]Montage, len(doc.Montages))
	for _, m := range doc.Montages {
		byName[m.Name] = m
	}
	return &Catalog{byName: byName}, nil
}

// Get returns the named montage and whether it was found.
func (c *Catalog) Get(name string) (Montage, bool) {
	m, ok := c.byName[name]
	return m, ok
}

// Names returns every montage name in the catalog.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.byName))
	for n := range c.byName {
		names = append(names, n)
	}
	return names
}

// DefaultCatalogYAML is a small bundled catalog of standard clinical
// montages, embedded so a session can seed a ChannelSet without its own
// settings document.
const DefaultCatalogYAML = `
montages:
  - name: standard_10_20_19
    channels: [Fp1, Fp2, F3, F4, C3, C4, P3, P4, O1, O2, F7, F8, T3, T4, T5, T6, Fz, Cz, Pz]
  - name: standard_10_20_21
    channels: [Fp1, Fp2, F3, F4, C3, C4, P3, P4, O1, O2, F7, F8, T3, T4, T5, T6, Fz, Cz, Pz, A1, A2]
  - name: frontal_aai
    channels: [F3, F4]
`
