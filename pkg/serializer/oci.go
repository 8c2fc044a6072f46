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
	"log/slog"

	"github.com/hpc-stack/skopos/pkg/oci"
)

// ociPushFunc matches oci.Push so tests can intercept the registry call.
type ociPushFunc func(ctx context.Context, ref *oci.Reference, filename string, payload []byte, opts oci.PushOptions) (*oci.PushResult, error)

// OCIWriter serializes snapshot data and pushes it to an OCI registry as an
// ORAS artifact. The artifact carries a single layer named after the format
// (snapshot.json, snapshot.yaml, or snapshot.txt).
type OCIWriter struct {
	ref    *oci.Reference
	format Format
	push   ociPushFunc
}

// NewOCIWriter creates an OCIWriter for the given oci:// target.
// If format is unknown, defaults to JSON format.
func NewOCIWriter(target string, format Format) (*OCIWriter, error) {
	ref, err := oci.ParseReference(target)
	if err != nil {
		return nil, err
	}
	if format.IsUnknown() {
		slog.Warn("unknown format, defaulting to JSON", "format", format)
		format = FormatJSON
	}
	return &OCIWriter{
		ref:    ref,
		format: format,
		push:   oci.Push,
	}, nil
}

// Serialize marshals the snapshot in the configured format and pushes the
// result to the registry. The context bounds the registry exchange.
func (w *OCIWriter) Serialize(ctx context.Context, snapshot any) error {
	var (
		payload   []byte
		err       error
		filename  string
		mediaType string
	)

	switch w.format {
	case FormatYAML:
		payload, err = serializeYAML(snapshot)
		filename, mediaType = "snapshot.yaml", "application/yaml"
	case FormatTable:
		payload, err = serializeTable(snapshot)
		filename, mediaType = "snapshot.txt", "text/plain"
	default:
		payload, err = serializeJSON(snapshot)
		filename, mediaType = "snapshot.json", oci.DefaultMediaType
	}
	if err != nil {
		return err
	}

	result, err := w.push(ctx, w.ref, filename, payload, oci.PushOptions{
		MediaType: mediaType,
		Annotations: map[string]string{
			"vnd.skopos.format": string(w.format),
		},
	})
	if err != nil {
		return err
	}

	slog.Info("snapshot pushed to registry",
		"reference", result.Reference,
		"digest", result.Digest,
	)
	return nil
}
