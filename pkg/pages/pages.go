// Package pages declares the controller configuration of each registration
// form page and a registry to look them up by name.
package pages

import "github.com/goliatone/go-formtoggle/pkg/controller"

// Page names.
const (
	ClientPermission = "client-permission"
	NRL              = "nrl"
	NUKUTR           = "nuk-utr"
	OverseasCompany  = "overseas-company"
)

// Element selectors shared by the form templates.
const (
	SelHiddenIdentifiers = "#hidden-identifiers"
	SelSubmit            = "#submit"
	SelContinue          = "#continue"
	SelPermissionFalse   = "#client-permission-false-hidden"
	SelPermissionTrue    = "#client-permission-true-hidden"
	SelHiddenUTR         = "#hidden-uniqueTaxRef-true"
	SelShadeBox          = "#shade-box"
	SelNukUtrTrue        = "#nuk-utr-true"
	SelNUkUtrTrue        = "#nUkUtr-true"
	SelHasBusinessIDTrue = "#hasBusinessUniqueId-true"
	SelBusinessUniqueID  = "#businessUniqueId"
	SelIssuingCountry    = "#issuingCountry"
	SelIssuingCountryIdx = "#issuingCountry_"
	SelIssuingInst       = "#issuingInstitution"
)

// ClientPermissionConfig toggles the permission explanations and swaps
// continue for submit when permission is refused.
func ClientPermissionConfig() controller.Config {
	return controller.Config{
		Name:    ClientPermission,
		Trigger: "permission",
		Baseline: controller.Effect{
			Hide: []string{SelSubmit, SelPermissionFalse, SelPermissionTrue},
			Show: []string{SelContinue},
		},
		Rules: map[string]controller.Effect{
			"true": {
				Hide: []string{SelSubmit, SelPermissionFalse},
				Show: []string{SelContinue, SelPermissionTrue},
			},
			"false": {
				Hide: []string{SelContinue, SelPermissionTrue},
				Show: []string{SelSubmit, SelPermissionFalse},
			},
		},
	}
}

// utrConfig is shared by the NRL and NUK-UTR pages: paying self assessment
// reveals the UTR field and shade box and allows submitting directly.
func utrConfig(name, trigger string) controller.Config {
	return controller.Config{
		Name:    name,
		Trigger: trigger,
		Baseline: controller.Effect{
			Hide: []string{SelHiddenUTR, SelShadeBox, SelSubmit},
		},
		Rules: map[string]controller.Effect{
			"true": {
				Hide: []string{SelContinue},
				Show: []string{SelHiddenUTR, SelShadeBox, SelSubmit},
			},
			"false": {
				Hide: []string{SelHiddenUTR, SelShadeBox, SelSubmit},
				Show: []string{SelContinue},
			},
		},
	}
}

// NRLConfig is the non-resident landlord page.
func NRLConfig() controller.Config {
	return utrConfig(NRL, "paysSA")
}

// NUKUTRConfig is the non-UK UTR page. Either pre-checked identifier reveals
// the identifiers section at load; only #nuk-utr-true also hides submit.
func NUKUTRConfig() controller.Config {
	cfg := utrConfig(NUKUTR, "nUkUtr")
	cfg.InitialChecks = []controller.InitialCheck{
		{
			Selector: SelNukUtrTrue,
			Effect: controller.Effect{
				Show: []string{SelHiddenIdentifiers},
				Hide: []string{SelSubmit},
			},
		},
		{
			Selector: SelNUkUtrTrue,
			Effect: controller.Effect{
				Show: []string{SelHiddenIdentifiers},
			},
		},
	}
	return cfg
}

// OverseasCompanyConfig reveals the business identifiers section and wipes
// its fields when the company has no unique identifier.
func OverseasCompanyConfig() controller.Config {
	return controller.Config{
		Name:    OverseasCompany,
		Trigger: "hasBusinessUniqueId",
		Baseline: controller.Effect{
			Hide: []string{SelHiddenIdentifiers},
		},
		InitialChecks: []controller.InitialCheck{
			{
				Selector: SelHasBusinessIDTrue,
				Effect:   controller.Effect{Show: []string{SelHiddenIdentifiers}},
			},
		},
		Rules: map[string]controller.Effect{
			"true": {
				Show: []string{SelHiddenIdentifiers},
			},
			"false": {
				Hide: []string{SelHiddenIdentifiers},
				Clear: []controller.Clear{
					{Selector: SelBusinessUniqueID, Mode: controller.ClearValue},
					{Selector: SelIssuingCountryIdx, Mode: controller.ClearSelectedIndex},
					{Selector: SelIssuingCountry, Mode: controller.ClearValue},
					{Selector: SelIssuingInst, Mode: controller.ClearValue},
				},
			},
		},
	}
}

// All returns the built-in page configurations.
func All() []controller.Config {
	return []controller.Config{
		ClientPermissionConfig(),
		NRLConfig(),
		NUKUTRConfig(),
		OverseasCompanyConfig(),
	}
}
