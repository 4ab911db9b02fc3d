package constants

// Account roles. Core team is the administrative role with elevated
// privileges across all resources; everyone else is a member.
const (
	Member = "member"
	Core   = "core"
)

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role string) bool {
	return role == Member || role == Core
}
