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

package oci

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	apperrors "github.com/hpc-stack/skopos/pkg/errors"
)

// ArtifactType is the manifest artifact type for pushed snapshots.
const ArtifactType = "application/vnd.skopos.snapshot"

// DefaultMediaType is the layer media type used when PushOptions does not
// specify one.
const DefaultMediaType = "application/json"

// PushOptions configures a snapshot push.
type PushOptions struct {
	// MediaType is the layer media type. Defaults to DefaultMediaType.
	MediaType string
	// Annotations are additional manifest annotations.
	Annotations map[string]string
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// PushResult describes a completed push.
type PushResult struct {
	// Digest is the SHA256 digest of the pushed manifest.
	Digest string
	// Reference is the image reference the artifact was tagged with.
	Reference string
}

// Push packs payload as a single-layer OCI artifact and copies it to the
// registry named by ref. Credentials come from the local Docker config.
func Push(ctx context.Context, ref *Reference, filename string, payload []byte, opts PushOptions) (*PushResult, error) {
	if ref == nil || ref.Tag == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "OCI reference with tag is required")
	}
	if filename == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "artifact filename is required")
	}

	// Stage the payload on disk so the ORAS file store can pack it.
	stageDir, err := os.MkdirTemp("", "skopos-push-*")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create staging directory", err)
	}
	defer os.RemoveAll(stageDir)

	if err := os.WriteFile(filepath.Join(stageDir, filename), payload, 0600); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to stage artifact payload", err)
	}

	fs, err := file.New(stageDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create file store", err)
	}
	defer func() { _ = fs.Close() }()
	fs.TarReproducible = true

	manifestDesc, err := packPayload(ctx, fs, filename, opts.MediaType, opts.Annotations)
	if err != nil {
		return nil, err
	}

	if err := fs.Tag(ctx, manifestDesc, ref.Tag); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to tag manifest in local store", err)
	}

	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", ref.Registry, ref.Repository))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, "failed to initialize remote repository", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	desc, err := oras.Copy(ctx, fs, ref.Tag, repo, ref.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "failed to push artifact to registry", err)
	}

	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: ref.ImageReference(),
	}, nil
}

// packPayload adds the staged file as a layer and packs an OCI 1.1 manifest
// around it.
func packPayload(ctx context.Context, fs *file.Store, filename, mediaType string, annotations map[string]string) (ociv1.Descriptor, error) {
	if mediaType == "" {
		mediaType = DefaultMediaType
	}

	layerDesc, err := fs.Add(ctx, filename, mediaType, "")
	if err != nil {
		return ociv1.Descriptor{}, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to add payload to store", err)
	}

	packOpts := oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layerDesc},
		ManifestAnnotations: annotations,
	}

	manifestDesc, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, packOpts)
	if err != nil {
		return ociv1.Descriptor{}, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to pack manifest", err)
	}

	return manifestDesc, nil
}

// createAuthClient builds a registry client with Docker credential support
// and optional TLS relaxation.
func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, _ := credentials.NewStoreFromDocker(credentials.StoreOptions{})

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	return &auth.Client{
		Client:     &http.Client{Transport: transport},
		Cache:      auth.NewCache(),
		Credential: credentials.Credential(credStore),
	}
}
