// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

package i18n

// messages contains all translations keyed by language code, then by dotted path.
//
//nolint:gochecknoglobals,gosmopolitan // immutable translation map with Arabic script
var messages = map[string]map[string]string{
	LangEN: {
		// Header
		"title":             "KUN 0X Nexus",
		"subtitle":          "Bypass & Tracking Emulation",
		"searchPlaceholder": "Search games, packages...",
		"filterAll":         "All Platforms",
		"filterAndroid":     "Android",
		"filteriOS":         "iOS",
		"providerAll":       "All Providers",
		"genreAll":          "All Genres",
		"resetFilters":      "Reset filters",
		"featured":          "Featured Games",
		"new":               "New",
		"games":             "Games",
		"noResults":         "No games found matching your criteria.",
		"loading":           "Loading catalog...",

		// Sections
		"nav.games":   "Games",
		"nav.pricing": "Pricing",
		"nav.blog":    "Blog",

		// Pager
		"pager.prev": "Previous",
		"pager.next": "Next",

		// Game modal
		"modal.howItWorks":   "How it Works",
		"modal.adminNotes":   "Admin Notes",
		"modal.relatedGames": "More by this Developer",
		"modal.platform":     "Platform",
		"modal.status":       "Status",
		"modal.price":        "Price",
		"modal.id":           "ID",
		"modal.store":        "Go to Store",
		"modal.close":        "Close",

		"status.active":     "Active",
		"status.not_active": "Not Active",
		"status.soon":       "Soon",

		// Pricing and blog
		"pricing.title":     "Pricing",
		"pricing.empty":     "No pricing plans available.",
		"pricing.recommend": "Recommended",
		"blog.title":        "Blog",
		"blog.empty":        "No articles yet.",
		"blog.readMore":     "Read more",

		// Error messages
		"err.notFound":     "Not found",
		"err.invalidBody":  "Invalid request body",
		"err.invalidPage":  "Invalid page number",
		"err.section":      "Unknown section",
		"err.rateLimit":    "Too many requests",
		"err.unknownLang":  "Unsupported language",
		"err.serviceError": "Something went wrong",
	},
	LangAR: {
		// Header
		"title":             "كن 0X نيكسوس",
		"subtitle":          "التخطي ومحاكاة التتبع",
		"searchPlaceholder": "ابحث عن الألعاب، الحزم...",
		"filterAll":         "كل المنصات",
		"filterAndroid":     "أندرويد",
		"filteriOS":         "iOS",
		"providerAll":       "كل المزودين",
		"genreAll":          "كل التصنيفات",
		"resetFilters":      "إعادة ضبط الفلاتر",
		"featured":          "ألعاب مميزة",
		"new":               "جديد",
		"games":             "الألعاب",
		"noResults":         "لا توجد ألعاب تطابق بحثك.",
		"loading":           "جارٍ تحميل الكتالوج...",

		// Sections
		"nav.games":   "الألعاب",
		"nav.pricing": "الأسعار",
		"nav.blog":    "المدونة",

		// Pager
		"pager.prev": "السابق",
		"pager.next": "التالي",

		// Game modal
		"modal.howItWorks":   "طريقة العمل",
		"modal.adminNotes":   "ملاحظات الإدارة",
		"modal.relatedGames": "المزيد من هذا المطور",
		"modal.platform":     "المنصة",
		"modal.status":       "الحالة",
		"modal.price":        "السعر",
		"modal.id":           "المعرف",
		"modal.store":        "الذهاب للمتجر",
		"modal.close":        "إغلاق",

		"status.active":     "نشط",
		"status.not_active": "غير نشط",
		"status.soon":       "قريباً",

		// Pricing and blog
		"pricing.title":     "الأسعار",
		"pricing.empty":     "لا توجد خطط أسعار متاحة.",
		"pricing.recommend": "موصى به",
		"blog.title":        "المدونة",
		"blog.empty":        "لا توجد مقالات بعد.",
		"blog.readMore":     "اقرأ المزيد",

		// Error messages
		"err.notFound":     "غير موجود",
		"err.invalidBody":  "طلب غير صالح",
		"err.invalidPage":  "رقم صفحة غير صالح",
		"err.section":      "قسم غير معروف",
		"err.rateLimit":    "طلبات كثيرة جداً",
		"err.unknownLang":  "لغة غير مدعومة",
		"err.serviceError": "حدث خطأ ما",
	},
}
