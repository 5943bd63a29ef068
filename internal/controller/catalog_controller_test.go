// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

package controller

import (
	"context"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	"github.com/rewful008-cloud/nexus-game-catalog/internal/catalog"
)

// countingLoader records how often the catalog was reloaded.
type countingLoader struct {
	calls atomic.Int32
}

func (l *countingLoader) Load(context.Context) catalog.LoadReport {
	l.calls.Add(1)

	return catalog.LoadReport{}
}

var _ = Describe("Catalog Controller", func() {
	const (
		cmName      = "nexus-catalog"
		cmNamespace = "default"
	)

	var (
		ctx        context.Context
		k8sClient  client.Client
		loader     *countingLoader
		reconciler *CatalogReconciler
		key        types.NamespacedName
	)

	BeforeEach(func() {
		ctx = context.Background()
		key = types.NamespacedName{Name: cmName, Namespace: cmNamespace}

		scheme := runtime.NewScheme()
		Expect(clientgoscheme.AddToScheme(scheme)).To(Succeed())

		k8sClient = fake.NewClientBuilder().WithScheme(scheme).Build()
		loader = &countingLoader{}
		reconciler = &CatalogReconciler{Client: k8sClient, Key: key, Loader: loader}
	})

	Context("When the catalog ConfigMap exists", func() {
		BeforeEach(func() {
			By("Creating the catalog ConfigMap")
			cm := &corev1.ConfigMap{
				ObjectMeta: metav1.ObjectMeta{Name: cmName, Namespace: cmNamespace},
				Data:       map[string]string{catalog.GamesResource: "[]"},
			}
			Expect(k8sClient.Create(ctx, cm)).To(Succeed())
		})

		It("should reload once per observed version", func() {
			_, err := reconciler.Reconcile(ctx, reconcile.Request{NamespacedName: key})
			Expect(err).NotTo(HaveOccurred())
			Expect(loader.calls.Load()).To(Equal(int32(1)))
			Expect(reconciler.LastVersion()).NotTo(BeEmpty())

			By("Reconciling again without a change")
			_, err = reconciler.Reconcile(ctx, reconcile.Request{NamespacedName: key})
			Expect(err).NotTo(HaveOccurred())
			Expect(loader.calls.Load()).To(Equal(int32(1)))

			By("Updating the ConfigMap")
			cm := &corev1.ConfigMap{}
			Expect(k8sClient.Get(ctx, key, cm)).To(Succeed())
			cm.Data[catalog.GamesResource] = `[{"id":1,"name":"A","device_os":"Android","status":"active"}]`
			Expect(k8sClient.Update(ctx, cm)).To(Succeed())

			_, err = reconciler.Reconcile(ctx, reconcile.Request{NamespacedName: key})
			Expect(err).NotTo(HaveOccurred())
			Expect(loader.calls.Load()).To(Equal(int32(2)))
		})

		It("should ignore other objects", func() {
			other := types.NamespacedName{Name: "unrelated", Namespace: cmNamespace}

			_, err := reconciler.Reconcile(ctx, reconcile.Request{NamespacedName: other})
			Expect(err).NotTo(HaveOccurred())
			Expect(loader.calls.Load()).To(BeZero())
		})
	})

	Context("When a reload of a serving catalog fails", func() {
		var store *catalog.Store

		BeforeEach(func() {
			store = catalog.NewStore(catalog.NewConfigMapSource(k8sClient, cmNamespace, cmName), nil)
			reconciler.Loader = store

			By("Creating a ConfigMap with two games")
			cm := &corev1.ConfigMap{
				ObjectMeta: metav1.ObjectMeta{Name: cmName, Namespace: cmNamespace},
				Data: map[string]string{catalog.GamesResource: `[
					{"id": 1, "name": "A", "device_os": "Android", "status": "active"},
					{"id": 2, "name": "B", "device_os": "iOS", "status": "soon"}
				]`},
			}
			Expect(k8sClient.Create(ctx, cm)).To(Succeed())

			_, err := reconciler.Reconcile(ctx, reconcile.Request{NamespacedName: key})
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Games()).To(HaveLen(2))
		})

		It("should keep serving the previous games when the key disappears", func() {
			cm := &corev1.ConfigMap{}
			Expect(k8sClient.Get(ctx, key, cm)).To(Succeed())
			delete(cm.Data, catalog.GamesResource)
			Expect(k8sClient.Update(ctx, cm)).To(Succeed())

			_, err := reconciler.Reconcile(ctx, reconcile.Request{NamespacedName: key})
			Expect(err).NotTo(HaveOccurred())

			Expect(store.Games()).To(HaveLen(2))
			Expect(store.Diagnostics().Entries()).To(HaveLen(1))
		})

		It("should keep serving the previous games when the document is malformed", func() {
			cm := &corev1.ConfigMap{}
			Expect(k8sClient.Get(ctx, key, cm)).To(Succeed())
			cm.Data[catalog.GamesResource] = `{"games": "oops"`
			Expect(k8sClient.Update(ctx, cm)).To(Succeed())

			_, err := reconciler.Reconcile(ctx, reconcile.Request{NamespacedName: key})
			Expect(err).NotTo(HaveOccurred())

			Expect(store.Games()).To(HaveLen(2))
			Expect(store.Diagnostics().Visible()).To(BeTrue())
		})
	})

	Context("When the catalog ConfigMap is missing", func() {
		It("should keep the loaded catalog", func() {
			_, err := reconciler.Reconcile(ctx, reconcile.Request{NamespacedName: key})
			Expect(err).NotTo(HaveOccurred())
			Expect(loader.calls.Load()).To(BeZero())
			Expect(reconciler.LastVersion()).To(BeEmpty())
		})
	})
})
