package loader

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExclusionRulesStdlib(t *testing.T) {
	rules := DefaultExclusionRules("github.com/example/app")
	require.True(t, rules.Excluded("fmt"))
	require.True(t, rules.Excluded("net/http"))
}

func TestExclusionRulesOwnModule(t *testing.T) {
	rules := DefaultExclusionRules("github.com/example/app")
	require.True(t, rules.Excluded("github.com/racemop/racemop/internal/track"))
}

func TestExclusionRulesSitePackagesDefaultOff(t *testing.T) {
	rules := DefaultExclusionRules("github.com/example/app")
	require.True(t, rules.Excluded("github.com/some/dependency"))
	require.False(t, rules.Excluded("github.com/example/app/internal/widget"))
}

func TestExclusionRulesSitePackagesOptIn(t *testing.T) {
	rules := DefaultExclusionRules("github.com/example/app")
	rules.InstrumentSitePackages = true
	require.False(t, rules.Excluded("github.com/some/dependency"))
}

func TestExclusionRulesBlockedFragments(t *testing.T) {
	rules := DefaultExclusionRules("github.com/example/app")
	rules.InstrumentSitePackages = true
	rules.BlockedFragments = []string{"/generated/"}
	require.True(t, rules.Excluded("github.com/example/app/generated/proto"))
	require.False(t, rules.Excluded("github.com/example/app/handlers"))
}
