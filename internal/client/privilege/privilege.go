// Package privilege ranks user groups and answers "is this group at least
// as privileged as that one" questions. The ranking is derived solely from
// the ordered table below.
package privilege

// Group is a user group label as sent by the backend.
type Group string

const (
	BasicPlan     Group = "Basic Plan"
	PremiumPlan   Group = "Premium Plan"
	JuniorSupport Group = "Junior Support"
	Support       Group = "Support"
	SeniorSupport Group = "Senior Support"
	Admin         Group = "Admin"
	Owner         Group = "Owner"
)

// order lists groups from least to most privileged.
var order = []Group{
	BasicPlan,
	PremiumPlan,
	JuniorSupport,
	Support,
	SeniorSupport,
	Admin,
	Owner,
}

var ranks = func() map[Group]int {
	m := make(map[Group]int, len(order))
	for i, g := range order {
		m[g] = i
	}
	return m
}()

// Unranked is the rank of labels missing from the table. It sits below every
// defined group.
const Unranked = -1

// Rank returns the ordinal of g, or Unranked.
func Rank(g Group) int {
	if r, ok := ranks[g]; ok {
		return r
	}
	return Unranked
}

// Known reports whether g appears in the table.
func Known(g Group) bool {
	_, ok := ranks[g]
	return ok
}

// Lowest is the least privileged group, used when the backend omits one.
func Lowest() Group { return order[0] }

// Groups returns the table in ascending order.
func Groups() []Group {
	out := make([]Group, len(order))
	copy(out, order)
	return out
}

// Satisfies reports whether have ranks at or above at least one of required.
// An empty requirement list is never satisfied.
func Satisfies(have Group, required ...Group) bool {
	rank := Rank(have)
	for _, r := range required {
		if rank >= Rank(r) {
			return true
		}
	}
	return false
}
