// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package plugin

import (
	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
)

// APIVersion is the version of this contract.
const APIVersion = "1.2.0"

var apiVersion = semver.MustParse(APIVersion)

// APIRequirer is implemented by plugins that depend on a range of contract
// versions, for example ">= 1.1, < 2".
type APIRequirer interface {
	RequiredAPI() string
}

// CheckAPI verifies that p accepts APIVersion. Plugins that do not
// implement APIRequirer are always accepted.
func CheckAPI(p Plugin) error {
	req, ok := p.(APIRequirer)
	if !ok || req.RequiredAPI() == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(req.RequiredAPI())
	if err != nil {
		return oops.In("plugin").Code("PLUGIN_API_CONSTRAINT").
			With("plugin", DisplayName(p)).
			With("constraint", req.RequiredAPI()).
			Wrap(err)
	}
	if !constraint.Check(apiVersion) {
		return oops.In("plugin").Code("PLUGIN_API_MISMATCH").
			With("plugin", DisplayName(p)).
			With("constraint", req.RequiredAPI()).
			With("api_version", APIVersion).
			Errorf("plugin requires API %s, host provides %s", req.RequiredAPI(), APIVersion)
	}
	return nil
}
