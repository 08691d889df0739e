package authz

import (
	"github.com/loopcrm/loopcrm-api/internal/domain/user"
)

// Feature represents a product feature gated by role
type Feature string

const (
	FeatureDashboard      Feature = "dashboard"
	FeatureLeads          Feature = "leads"
	FeatureReports        Feature = "reports"
	FeatureExports        Feature = "exports"
	FeatureUserManagement Feature = "user_management"
	FeatureRestrictions   Feature = "restrictions"
	FeatureWebhooks       Feature = "webhooks"
	FeatureSettings       Feature = "settings"
)

// allFeatures fixes the iteration order for resolved permission listings
var allFeatures = []Feature{
	FeatureDashboard,
	FeatureLeads,
	FeatureReports,
	FeatureExports,
	FeatureUserManagement,
	FeatureRestrictions,
	FeatureWebhooks,
	FeatureSettings,
}

// FeatureDescriptions maps features to human-readable descriptions
var FeatureDescriptions = map[Feature]string{
	FeatureDashboard:      "View the CRM dashboard",
	FeatureLeads:          "View and work leads",
	FeatureReports:        "View performance reports",
	FeatureExports:        "Request CSV exports",
	FeatureUserManagement: "Manage directory users and the reporting hierarchy",
	FeatureRestrictions:   "Manage access restrictions",
	FeatureWebhooks:       "Configure lead webhooks",
	FeatureSettings:       "Change workspace settings",
}

// RoleFeatures is the static capability table: role to usable features.
// Missing rows resolve to the default row; missing features resolve to false.
var RoleFeatures = map[user.Role]map[Feature]bool{
	user.RoleSuperAdmin: {
		FeatureDashboard:      true,
		FeatureLeads:          true,
		FeatureReports:        true,
		FeatureExports:        true,
		FeatureUserManagement: true,
		FeatureRestrictions:   false,
		FeatureWebhooks:       true,
		FeatureSettings:       true,
	},
	user.RoleAdmin: {
		FeatureDashboard:      true,
		FeatureLeads:          true,
		FeatureReports:        true,
		FeatureExports:        true,
		FeatureUserManagement: true,
		FeatureRestrictions:   true,
		FeatureWebhooks:       true,
		FeatureSettings:       true,
	},
	user.RoleSeniorManager: {
		FeatureDashboard: true,
		FeatureLeads:     true,
		FeatureReports:   true,
		FeatureExports:   true,
	},
	user.RoleManager: {
		FeatureDashboard: true,
		FeatureLeads:     true,
		FeatureReports:   true,
		FeatureExports:   true,
	},
	user.RoleTeamLeader: {
		FeatureDashboard: true,
		FeatureLeads:     true,
		FeatureReports:   true,
	},
	user.RoleCounselor: {
		FeatureDashboard: true,
		FeatureLeads:     true,
	},
	user.RoleDefault: {
		FeatureDashboard: true,
	},
}

// RoleRank is a total order over roles used for coarse privilege comparisons.
// It is independent of the reporting hierarchy graph.
var RoleRank = map[user.Role]int{
	user.RoleSuperAdmin:    100,
	user.RoleAdmin:         80,
	user.RoleSeniorManager: 60,
	user.RoleManager:       40,
	user.RoleTeamLeader:    20,
	user.RoleCounselor:     10,
	user.RoleDefault:       0,
}

// AccessLevel returns the numeric rank of a role
func AccessLevel(role user.Role) int {
	return RoleRank[role]
}

// AtLeast reports whether role is ranked at or above other
func AtLeast(role, other user.Role) bool {
	return RoleRank[role] >= RoleRank[other]
}

// grantRoles lists the roles whose active users a given actor role may
// always act on, independent of the reporting hierarchy.
var grantRoles = map[user.Role][]user.Role{
	user.RoleSuperAdmin: {
		user.RoleSuperAdmin,
		user.RoleAdmin,
		user.RoleSeniorManager,
		user.RoleManager,
		user.RoleTeamLeader,
		user.RoleCounselor,
	},
	user.RoleSeniorManager: {
		user.RoleManager,
		user.RoleTeamLeader,
		user.RoleCounselor,
	},
	user.RoleManager: {
		user.RoleTeamLeader,
		user.RoleCounselor,
	},
}
