// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

package view

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	catalogv1alpha1 "github.com/rewful008-cloud/nexus-game-catalog/api/v1alpha1"
	"github.com/rewful008-cloud/nexus-game-catalog/internal/catalog"
	"github.com/rewful008-cloud/nexus-game-catalog/internal/filter"
	"github.com/rewful008-cloud/nexus-game-catalog/internal/i18n"
	"github.com/rewful008-cloud/nexus-game-catalog/internal/prefs"
)

var _ = Describe("View State", func() {
	var (
		cat   *fakeCatalog
		store *prefs.Memory
		state *State
	)

	BeforeEach(func() {
		cat = &fakeCatalog{games: generatedGames(45)}
		store = prefs.NewMemory()
		state = New(cat, store)
	})

	Context("When paginating 45 games", func() {
		It("should split them into pages of 40 and 5", func() {
			Expect(state.TotalPages()).To(Equal(2))
			Expect(state.PageGames().Items).To(HaveLen(40))

			By("Moving to the second page")
			Expect(state.GoToPage(2)).To(BeTrue())
			Expect(state.PageGames().Items).To(HaveLen(5))
			Expect(state.TakeScrollToTop()).To(BeTrue())
			Expect(state.TakeScrollToTop()).To(BeFalse())
		})

		It("should ignore out-of-range pages", func() {
			Expect(state.GoToPage(0)).To(BeFalse())
			Expect(state.CurrentPage()).To(Equal(1))
			Expect(state.GoToPage(state.TotalPages() + 1)).To(BeFalse())
			Expect(state.CurrentPage()).To(Equal(1))
			Expect(state.TakeScrollToTop()).To(BeFalse())
		})

		It("should bound next and previous", func() {
			Expect(state.PrevPage()).To(BeFalse())
			Expect(state.NextPage()).To(BeTrue())
			Expect(state.NextPage()).To(BeFalse())
			Expect(state.CurrentPage()).To(Equal(2))
		})
	})

	Context("When a filter changes", func() {
		BeforeEach(func() {
			cat.games = generatedGames(200)
			Expect(state.GoToPage(3)).To(BeTrue())
		})

		It("should reset the page even if the old page stays valid", func() {
			state.SetProvider("Adjust")
			Expect(state.TotalPages()).To(Equal(5))
			Expect(state.CurrentPage()).To(Equal(1))
		})

		It("should reset the page on every field", func() {
			mutators := []func(){
				func() { state.SetSearch("Game") },
				func() { state.SetPlatform("android") },
				func() { state.SetGenre(filter.All) },
				func() { state.ResetFilters() },
				func() { state.SetCriteria(filter.Criteria{Search: "1"}) },
			}

			for _, mutate := range mutators {
				Expect(state.GoToPage(2)).To(BeTrue())
				mutate()
				Expect(state.CurrentPage()).To(Equal(1))
			}
		})

		It("should restore defaults on reset", func() {
			state.SetSearch("zzz")
			Expect(state.FilteredGames()).To(BeEmpty())
			Expect(state.TotalPages()).To(Equal(0))
			Expect(state.CurrentPage()).To(Equal(1))

			state.ResetFilters()
			Expect(state.Criteria().IsDefault()).To(BeTrue())
			Expect(state.FilteredGames()).To(HaveLen(200))
		})
	})

	Context("When a game modal is open", func() {
		It("should list up to four other games by the same developer", func() {
			Expect(state.OpenModal("1")).To(Succeed())

			related := state.RelatedGames()
			Expect(related).To(HaveLen(4))

			for _, g := range related {
				Expect(g.Developer).To(Equal("Studio 0"))
				Expect(g.ID).NotTo(Equal(catalogv1alpha1.FlexString("1")))
			}
		})

		It("should return nothing for an unknown developer", func() {
			cat.games = []catalogv1alpha1.Game{
				{ID: "1", Name: "A", Developer: catalogv1alpha1.UnknownDeveloper},
				{ID: "2", Name: "B", Developer: catalogv1alpha1.UnknownDeveloper},
				{ID: "3", Name: "C", Developer: catalogv1alpha1.UnknownDeveloper},
			}

			Expect(state.OpenModal("1")).To(Succeed())
			Expect(state.RelatedGames()).To(BeEmpty())
		})

		It("should reference the stored game and replace it on reopen", func() {
			Expect(state.OpenModal("2")).To(Succeed())
			Expect(state.SelectedGame()).To(BeIdenticalTo(&cat.games[1]))

			Expect(state.OpenModal("3")).To(Succeed())
			Expect(state.SelectedGame()).To(BeIdenticalTo(&cat.games[2]))

			state.CloseModal()
			Expect(state.SelectedGame()).To(BeNil())
			Expect(state.RelatedGames()).To(BeEmpty())
		})

		It("should reject unknown ids and keep the current selection", func() {
			Expect(state.OpenModal("2")).To(Succeed())
			Expect(state.OpenModal("missing")).To(MatchError(catalog.ErrNotFound))
			Expect(state.SelectedGame()).To(BeIdenticalTo(&cat.games[1]))
		})
	})

	Context("When an article is open", func() {
		BeforeEach(func() {
			cat.articles = []catalogv1alpha1.Article{{ID: "a1", Title: "One"}, {ID: "a2", Title: "Two"}}
		})

		It("should open, replace and close", func() {
			Expect(state.OpenArticle("a1")).To(Succeed())
			Expect(state.OpenArticle("a2")).To(Succeed())
			Expect(state.SelectedArticle().Title).To(Equal("Two"))

			state.CloseArticle()
			Expect(state.SelectedArticle()).To(BeNil())
		})
	})

	Context("When toggling the language", func() {
		It("should flip direction and persist the choice", func() {
			original, err := i18n.Table(state.Lang())
			Expect(err).NotTo(HaveOccurred())

			Expect(state.ToggleLanguage()).To(Succeed())
			Expect(state.Lang()).To(Equal(i18n.LangAR))
			Expect(state.Dir()).To(Equal(i18n.DirRTL))

			saved, ok := store.Get(i18n.PreferenceKey)
			Expect(ok).To(BeTrue())
			Expect(saved).To(Equal(i18n.LangAR))

			Expect(state.ToggleLanguage()).To(Succeed())
			Expect(state.Dir()).To(Equal(i18n.DirLTR))

			restored, err := i18n.Table(state.Lang())
			Expect(err).NotTo(HaveOccurred())
			Expect(restored).To(Equal(original))
		})

		It("should start from the persisted preference", func() {
			Expect(store.Set(i18n.PreferenceKey, "ar")).To(Succeed())

			restored := New(cat, store)
			Expect(restored.Lang()).To(Equal(i18n.LangAR))

			title, err := restored.T("title")
			Expect(err).NotTo(HaveOccurred())
			Expect(title).To(Equal("كن 0X نيكسوس"))
		})

		It("should report missing keys explicitly", func() {
			_, err := state.T("modal.missing")
			Expect(err).To(MatchError(i18n.ErrMissingKey))
		})
	})

	Context("When switching sections", func() {
		It("should leave every other piece of state alone", func() {
			state.SetSearch("Game 1")
			Expect(state.OpenModal("1")).To(Succeed())

			state.SetSection(SectionBlog)

			Expect(state.Section()).To(Equal(SectionBlog))
			Expect(state.Criteria().Search).To(Equal("Game 1"))
			Expect(state.SelectedGame()).NotTo(BeNil())
		})

		It("should validate section names", func() {
			section, err := ParseSection("pricing")
			Expect(err).NotTo(HaveOccurred())
			Expect(section).To(Equal(SectionPricing))

			_, err = ParseSection("admin")
			Expect(err).To(HaveOccurred())
		})
	})

	Context("When scrolling and resizing", func() {
		It("should flag scrolling past the threshold", func() {
			state.SetScrollY(ScrollThreshold)
			Expect(state.Scrolled()).To(BeFalse())
			state.SetScrollY(ScrollThreshold + 1)
			Expect(state.Scrolled()).To(BeTrue())
		})

		It("should narrow the page buttons on small viewports", func() {
			cat.games = generatedGames(40 * 12)
			Expect(state.GoToPage(6)).To(BeTrue())

			state.SetViewportWidth(1280)
			Expect(state.ShouldShowPage(2)).To(BeTrue())
			Expect(state.ShouldShowPage(10)).To(BeTrue())
			Expect(state.ShouldShowPage(11)).To(BeFalse())

			state.SetViewportWidth(390)
			Expect(state.ShouldShowPage(1)).To(BeTrue())
			Expect(state.ShouldShowPage(3)).To(BeFalse())
			Expect(state.ShouldShowPage(4)).To(BeTrue())
			Expect(state.ShouldShowPage(8)).To(BeTrue())
			Expect(state.ShouldShowPage(9)).To(BeFalse())
		})
	})
})
