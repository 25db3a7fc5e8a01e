package orchestrator

import "strings"

// Allowlist is the statically configured set of administrator emails. It is
// parsed once at process start and never mutated afterwards.
type Allowlist map[string]struct{}

// ParseAllowlist builds an Allowlist from a comma-separated email list.
// Entries are trimmed and lowercased; empty entries are dropped.
func ParseAllowlist(csv string) Allowlist {
	list := make(Allowlist)
	for _, entry := range strings.Split(csv, ",") {
		e := normalizeEmail(entry)
		if e == "" {
			continue
		}
		list[e] = struct{}{}
	}
	return list
}

// Contains reports whether the normalized form of email is on the list.
func (a Allowlist) Contains(email string) bool {
	_, ok := a[normalizeEmail(email)]
	return ok
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
