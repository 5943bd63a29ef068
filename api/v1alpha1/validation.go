// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

package v1alpha1

import (
	"strings"

	"github.com/asaskevich/govalidator"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// supportedStatuses lists the accepted Game.Status values.
var supportedStatuses = []string{string(StatusActive), string(StatusNotActive), string(StatusSoon)} //nolint:gochecknoglobals // immutable enum list

// Default clears optional fields whose values cannot be used, so the record
// survives validation. It reports whether anything was cleared.
func (g *Game) Default() bool {
	if g.StoreLink != "" && !govalidator.IsURL(g.StoreLink) {
		g.StoreLink = ""

		return true
	}

	return false
}

// Validate checks the required fields of a game record.
func (g *Game) Validate(path *field.Path) field.ErrorList {
	var errs field.ErrorList

	if strings.TrimSpace(g.ID.String()) == "" {
		errs = append(errs, field.Required(path.Child("id"), ""))
	}

	if strings.TrimSpace(g.Name) == "" {
		errs = append(errs, field.Required(path.Child("name"), ""))
	}

	if strings.TrimSpace(g.DeviceOS) == "" {
		errs = append(errs, field.Required(path.Child("device_os"), ""))
	}

	if !govalidator.IsIn(string(g.Status), supportedStatuses...) {
		errs = append(errs, field.NotSupported(path.Child("status"), g.Status, supportedStatuses))
	}

	if g.StoreLink != "" && !govalidator.IsURL(g.StoreLink) {
		errs = append(errs, field.Invalid(path.Child("store_link"), g.StoreLink, "must be a URL"))
	}

	return errs
}

// Validate checks the required fields of a plan record.
func (p *Plan) Validate(path *field.Path) field.ErrorList {
	var errs field.ErrorList

	if strings.TrimSpace(p.ID.String()) == "" {
		errs = append(errs, field.Required(path.Child("id"), ""))
	}

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, field.Required(path.Child("name"), ""))
	}

	return errs
}

// Validate checks the required fields of an article record.
func (a *Article) Validate(path *field.Path) field.ErrorList {
	var errs field.ErrorList

	if strings.TrimSpace(a.ID.String()) == "" {
		errs = append(errs, field.Required(path.Child("id"), ""))
	}

	if strings.TrimSpace(a.Title) == "" {
		errs = append(errs, field.Required(path.Child("title"), ""))
	}

	return errs
}
