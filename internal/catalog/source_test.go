// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
)

func TestHTTPSource_Fetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/catalog/data.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	source, err := NewHTTPSource(srv.URL+"/catalog", srv.Client())
	require.NoError(t, err)

	data, err := source.Fetch(context.Background(), GamesResource)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	_, err = source.Fetch(context.Background(), PlansResource)
	require.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestHTTPSource_InvalidBase(t *testing.T) {
	t.Parallel()

	_, err := NewHTTPSource("://bad", nil)
	assert.Error(t, err)
}

func TestDirSource_Fetch(t *testing.T) {
	t.Parallel()

	source := NewDirSource(fstest.MapFS{
		GamesResource: &fstest.MapFile{Data: []byte(`[{"id":1}]`)},
	})

	data, err := source.Fetch(context.Background(), GamesResource)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(data))

	_, err = source.Fetch(context.Background(), ArticlesResource)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestConfigMapSource_Fetch(t *testing.T) {
	t.Parallel()

	scheme := runtime.NewScheme()
	require.NoError(t, clientgoscheme.AddToScheme(scheme))

	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "nexus-catalog", Namespace: "default"},
		Data:       map[string]string{GamesResource: `[]`},
		BinaryData: map[string][]byte{PlansResource: []byte(`[{"id":"pro","name":"Pro"}]`)},
	}

	c := fake.NewClientBuilder().WithScheme(scheme).WithObjects(cm).Build()

	source := NewConfigMapSource(c, "default", "nexus-catalog")

	data, err := source.Fetch(context.Background(), GamesResource)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	data, err = source.Fetch(context.Background(), PlansResource)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Pro")

	_, err = source.Fetch(context.Background(), ArticlesResource)
	require.ErrorIs(t, err, ErrNotFound)

	missing := NewConfigMapSource(c, "default", "absent")
	_, err = missing.Fetch(context.Background(), GamesResource)
	require.ErrorIs(t, err, ErrNotFound)
}
