// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package validators

import (
	"context"
	"fmt"
	"regexp"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
)

// UCS bundle versions look like 4.2(3d)B or 3.1(2c)C, the trailing letter
// naming the blade (B), rack (C) or infrastructure (A) bundle.
var bundleVersionPattern = regexp.MustCompile(`^\d+\.\d+\(\d+[a-z]*\d*\)[A-Z]?$`)

type BundleVersionValidator struct {
	// Suffix, when set, is the bundle letter the version must end with.
	Suffix string
}

func (v BundleVersionValidator) Description(ctx context.Context) string {
	if v.Suffix == "" {
		return "Ensures the value is a UCS bundle version such as 4.2(3d)."
	}
	return fmt.Sprintf("Ensures the value is a UCS bundle version such as 4.2(3d)%s.", v.Suffix)
}

func (v BundleVersionValidator) MarkdownDescription(ctx context.Context) string {
	return v.Description(ctx)
}

func (v BundleVersionValidator) ValidateString(ctx context.Context, req validator.StringRequest, resp *validator.StringResponse) {
	if req.ConfigValue.IsNull() || req.ConfigValue.IsUnknown() {
		return
	}

	value := req.ConfigValue.ValueString()
	if value == "" {
		return
	}

	if !IsBundleVersion(value, v.Suffix) {
		resp.Diagnostics.AddAttributeError(
			req.Path,
			"Validation Error",
			fmt.Sprintf("Field '%s' value '%s' is not valid. %s", req.Path.String(), value, v.Description(ctx)),
		)
	}
}

// IsBundleVersion reports whether value is a bundle version. A version without
// bundle letter is accepted for any suffix.
func IsBundleVersion(value, suffix string) bool {
	if !bundleVersionPattern.MatchString(value) {
		return false
	}
	last := value[len(value)-1:]
	if last == ")" || suffix == "" {
		return true
	}
	return last == suffix
}

func BundleVersion(suffix string) validator.String {
	return BundleVersionValidator{Suffix: suffix}
}
