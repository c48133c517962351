package actions

import (
	"strings"

	"github.com/google/uuid"

	"github.com/johnquangdev/clientpulse/internal/domain/entities"
)

// MatchAssignee resolves a model-provided name against the team directory.
// A member matches when either name contains the other (ignoring case) or
// when the name equals the member's first name. The first match in directory
// order wins, so short names like "Al" resolve to whoever is listed first.
func MatchAssignee(members []entities.TeamMember, name string) *uuid.UUID {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}

	for i := range members {
		full := strings.ToLower(strings.TrimSpace(members[i].FullName))
		if full == "" {
			continue
		}
		first := strings.Fields(full)[0]
		if strings.Contains(full, needle) || strings.Contains(needle, full) || needle == first {
			id := members[i].ID
			return &id
		}
	}
	return nil
}
