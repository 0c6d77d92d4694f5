// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package montage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ParsesBundledDefaultCatalog(t *testing.T) {
	cat, err := Load([]byte(DefaultCatalogYAML))
	require.NoError(t, err)

	m, ok := cat.Get("standard_10_20_19")
	require.True(t, ok)
	assert.Equal(t, "standard_10_20_19", m.Name)
	assert.Len(t, m.Channels, 19)

	_, ok = cat.Get("nonexistent")
	assert.False(t, ok)
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	_, err := Load([]byte("montages: [this is not valid: ["))
	assert.Error(t, err)
}

func TestCatalog_NamesListsEveryMontage(t *testing.T) {
	cat, err := Load([]byte(DefaultCatalogYAML))
	require.NoError(t, err)
	names := cat.Names()
	assert.Contains(t, names, "standard_10_20_19")
	assert.Contains(t, names, "standard_10_20_21")
	assert.Contains(t, names, "frontal_aai")
}
