package workflow

import "github.com/mmr-tortoise/gitrepo/internal/model"

// conventionalTargets are the primary-branch names tried, in this order,
// when no target override is given. "main" wins over "master".
var conventionalTargets = []string{"main", "master"}

// SelectTarget picks the branch a workflow should base its work on.
//
// A non-empty override is returned as-is, whether or not it exists; a
// missing override branch surfaces later as a checkout failure. Otherwise
// the first conventional name present in branches is returned. ok is
// false when nothing resolves.
func SelectTarget(branches *model.BranchSet, override string) (target string, ok bool) {
	if override != "" {
		return override, true
	}
	if branches == nil {
		return "", false
	}
	for _, name := range conventionalTargets {
		if branches.Contains(name) {
			return name, true
		}
	}
	return "", false
}
