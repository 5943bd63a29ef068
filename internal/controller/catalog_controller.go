// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

// Package controller keeps the catalog in step with the ConfigMap it is
// served from.
package controller

import (
	"context"
	"sync"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/builder"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/predicate"

	"github.com/rewful008-cloud/nexus-game-catalog/internal/catalog"
)

// Loader reloads the catalog collections.
type Loader interface {
	Load(ctx context.Context) catalog.LoadReport
}

// CatalogReconciler reloads the catalog whenever a new version of its
// ConfigMap is observed.
type CatalogReconciler struct {
	client.Client

	Key    types.NamespacedName
	Loader Loader

	mu          sync.Mutex
	lastVersion string
}

// +kubebuilder:rbac:groups="",resources=configmaps,verbs=get;list;watch

// Reconcile handles the reconciliation of the catalog ConfigMap.
func (r *CatalogReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	log := logf.FromContext(ctx)

	if req.NamespacedName != r.Key {
		return ctrl.Result{}, nil
	}

	cm := &corev1.ConfigMap{}
	if err := r.Get(ctx, req.NamespacedName, cm); err != nil {
		if errors.IsNotFound(err) {
			log.Info("Catalog ConfigMap not found; keeping the loaded catalog")

			return ctrl.Result{}, nil
		}

		return ctrl.Result{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cm.ResourceVersion == r.lastVersion {
		return ctrl.Result{}, nil
	}

	report := r.Loader.Load(ctx)
	r.lastVersion = cm.ResourceVersion

	log.Info("Reloaded catalog",
		"resourceVersion", cm.ResourceVersion,
		"games", report.Games.Loaded,
		"plans", report.Plans.Loaded,
		"articles", report.Articles.Loaded)

	return ctrl.Result{}, nil
}

// LastVersion returns the ConfigMap resource version the catalog was last
// loaded from.
func (r *CatalogReconciler) LastVersion() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.lastVersion
}

// SetupWithManager sets up the controller with the Manager.
func (r *CatalogReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&corev1.ConfigMap{}, builder.WithPredicates(predicate.NewPredicateFuncs(func(obj client.Object) bool {
			return obj.GetNamespace() == r.Key.Namespace && obj.GetName() == r.Key.Name
		}))).
		Named("catalog").
		Complete(r)
}
