// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Well-known resource names.
const (
	GamesResource    = "data.json"
	PlansResource    = "plans.json"
	ArticlesResource = "articles.json"
)

// maxDocumentSize bounds a single fetched document.
const maxDocumentSize = 32 << 20

var (
	// ErrNotFound is returned when a resource or entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnexpectedStatus is returned for non-2xx HTTP responses.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// Source retrieves a named catalog document.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// HTTPSource fetches documents relative to a base URL.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPSource creates a source resolving names against baseURL.
// A nil client uses http.DefaultClient.
func NewHTTPSource(baseURL string, httpClient *http.Client) (*HTTPSource, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPSource{base: base, client: httpClient}, nil
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	target := s.base.ResolveReference(&url.URL{Path: name})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: GET %s: %s", ErrUnexpectedStatus, target, resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
}

// DirSource reads documents from a filesystem, typically os.DirFS.
type DirSource struct {
	fsys fs.FS
}

// NewDirSource creates a source over fsys.
func NewDirSource(fsys fs.FS) *DirSource {
	return &DirSource{fsys: fsys}
}

// Fetch implements Source.
func (s *DirSource) Fetch(_ context.Context, name string) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return data, err
}

// ConfigMapSource reads documents from the data keys of a ConfigMap, so the
// catalog can be shipped alongside the deployment.
type ConfigMapSource struct {
	client client.Reader
	key    client.ObjectKey
}

// NewConfigMapSource creates a source reading the given ConfigMap.
func NewConfigMapSource(c client.Reader, namespace, name string) *ConfigMapSource {
	return &ConfigMapSource{
		client: c,
		key:    client.ObjectKey{Namespace: namespace, Name: name},
	}
}

// Fetch implements Source.
func (s *ConfigMapSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	cm := &corev1.ConfigMap{}
	if err := s.client.Get(ctx, s.key, cm); err != nil {
		if client.IgnoreNotFound(err) == nil {
			return nil, fmt.Errorf("%w: configmap %s", ErrNotFound, s.key)
		}

		return nil, fmt.Errorf("get configmap %s: %w", s.key, err)
	}

	if data, ok := cm.Data[name]; ok {
		return []byte(data), nil
	}

	if data, ok := cm.BinaryData[name]; ok {
		return data, nil
	}

	return nil, fmt.Errorf("%w: key %s in configmap %s", ErrNotFound, name, s.key)
}
