package domain

// Role classifies the three kinds of participants the board knows about.
type Role string

const (
	RoleOwner Role = "owner"
	RoleHuman Role = "human"
	RoleAI    Role = "ai"
)

// Principal is the resolved identity of a request. It is derived per-request
// from a session cookie or an API key and never persisted.
type Principal struct {
	Role Role   `json:"role"`
	Name string `json:"name"`
}

// AIDisplayName is how an AI client appears as an author or member.
func AIDisplayName(clientName string) string {
	return "AI:" + clientName
}

// VoterKey uniquely identifies a voting entity across roles.
func (p Principal) VoterKey() string {
	return string(p.Role) + ":" + p.Name
}
