// Copyright (c) 2025, The Skopos Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpc-stack/skopos/pkg/oci"
)

func TestNewOCIWriter(t *testing.T) {
	w, err := NewOCIWriter("oci://ghcr.io/hpc/status:v1", FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "ghcr.io", w.ref.Registry)
	assert.Equal(t, "hpc/status", w.ref.Repository)
	assert.Equal(t, "v1", w.ref.Tag)

	_, err = NewOCIWriter("/tmp/out.json", FormatJSON)
	assert.Error(t, err)
}

func TestOCIWriterSerialize(t *testing.T) {
	w, err := NewOCIWriter("oci://ghcr.io/hpc/status:v1", FormatJSON)
	require.NoError(t, err)

	var (
		gotFilename string
		gotPayload  []byte
		gotOpts     oci.PushOptions
	)
	w.push = func(_ context.Context, ref *oci.Reference, filename string, payload []byte, opts oci.PushOptions) (*oci.PushResult, error) {
		gotFilename = filename
		gotPayload = payload
		gotOpts = opts
		return &oci.PushResult{Digest: "sha256:abc", Reference: ref.ImageReference()}, nil
	}

	require.NoError(t, w.Serialize(context.Background(), testConfig{Name: "frontier", Value: 1}))

	assert.Equal(t, "snapshot.json", gotFilename)
	assert.Equal(t, oci.DefaultMediaType, gotOpts.MediaType)
	assert.Equal(t, "json", gotOpts.Annotations["vnd.skopos.format"])

	var decoded testConfig
	require.NoError(t, json.Unmarshal(gotPayload, &decoded))
	assert.Equal(t, "frontier", decoded.Name)
}

func TestOCIWriterSerializeYAML(t *testing.T) {
	w, err := NewOCIWriter("oci://ghcr.io/hpc/status", FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "latest", w.ref.Tag)

	var gotFilename string
	w.push = func(_ context.Context, ref *oci.Reference, filename string, _ []byte, _ oci.PushOptions) (*oci.PushResult, error) {
		gotFilename = filename
		return &oci.PushResult{Reference: ref.ImageReference()}, nil
	}

	require.NoError(t, w.Serialize(context.Background(), testConfig{Name: "frontier"}))
	assert.Equal(t, "snapshot.yaml", gotFilename)
}

func TestNewFileWriterOrStdoutRoutesOCI(t *testing.T) {
	w := NewFileWriterOrStdout(FormatJSON, "oci://ghcr.io/hpc/status:v1")
	_, ok := w.(*OCIWriter)
	assert.True(t, ok)

	// A malformed reference falls back to stdout rather than failing.
	w = NewFileWriterOrStdout(FormatJSON, "oci://UPPER/Case")
	_, ok = w.(*Writer)
	assert.True(t, ok)
}
