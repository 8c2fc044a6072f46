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
	"fmt"
	"strings"

	"github.com/distribution/reference"

	apperrors "github.com/hpc-stack/skopos/pkg/errors"
)

// URIScheme is the URI scheme for registry output targets
// (e.g., "oci://ghcr.io/org/status:latest").
const URIScheme = "oci://"

// DefaultTag is applied when an oci:// target carries no tag.
const DefaultTag = "latest"

// Reference is a parsed oci:// output target.
type Reference struct {
	// Registry is the registry host (e.g., "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the repository path within the registry.
	Repository string
	// Tag is the artifact tag. Never empty after ParseReference.
	Tag string
}

// IsReference reports whether target looks like an oci:// URI.
func IsReference(target string) bool {
	return strings.HasPrefix(strings.TrimSpace(target), URIScheme)
}

// ParseReference parses an oci://registry/repository[:tag] target into its
// components. A missing tag defaults to DefaultTag.
func ParseReference(target string) (*Reference, error) {
	trimmed := strings.TrimSpace(target)
	if !strings.HasPrefix(trimmed, URIScheme) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput,
			fmt.Sprintf("not an OCI reference: %s", target))
	}

	named, err := reference.ParseNormalizedNamed(strings.TrimPrefix(trimmed, URIScheme))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, "invalid OCI reference", err)
	}

	tag := DefaultTag
	if tagged, ok := named.(reference.Tagged); ok {
		tag = tagged.Tag()
	}

	return &Reference{
		Registry:   reference.Domain(named),
		Repository: reference.Path(named),
		Tag:        tag,
	}, nil
}

// String returns the reference in oci:// URI form.
func (r *Reference) String() string {
	return fmt.Sprintf("%s%s/%s:%s", URIScheme, r.Registry, r.Repository, r.Tag)
}

// ImageReference returns the Docker-style image reference without the
// oci:// scheme, suitable for registry clients.
func (r *Reference) ImageReference() string {
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}
