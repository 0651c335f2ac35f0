package acl

import (
	"encoding/json"
	"net/url"
	"strings"
)

const (
	ActionRead  = "read"
	ActionWrite = "write"
)

// Policy is the per-role aggregation of access control entries.
type Policy struct {
	Role    string   `json:"role"`
	Read    bool     `json:"read"`
	Write   bool     `json:"write"`
	Actions []string `json:"actions"`
}

// NewPolicy creates an empty policy for a role.
func NewPolicy(role string) *Policy {
	return &Policy{
		Role:    role,
		Actions: []string{},
	}
}

// Allow is the allow flag of an entry. The server sends it either as a
// JSON boolean or as the strings "true"/"false". Any other value denies.
type Allow bool

func (a *Allow) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*a = Allow(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*a = false
		return nil
	}
	*a = Allow(strings.TrimSpace(s) == "true")
	return nil
}

// Ace is a single role/action/allow triple as sent by the server.
type Ace struct {
	Role   string `json:"role"`
	Action string `json:"action"`
	Allow  Allow  `json:"allow"`
}

// List is the server ACL document: {"acl": {"ace": [...]}}.
type List struct {
	ACL struct {
		Ace []Ace `json:"ace"`
	} `json:"acl"`
}

// EpisodeAccess is the part of the access.json response carrying the ACL.
// The ACL itself is a JSON document encoded as a string.
type EpisodeAccess struct {
	ACL string `json:"acl"`
}

// AccessResponse is the body of GET event/{id}/access.json.
type AccessResponse struct {
	EpisodeAccess *EpisodeAccess `json:"episode_access,omitempty"`
}

// Decode turns the access response into policies ordered by the first
// occurrence of each role. A missing or malformed ACL yields no policies.
func Decode(resp AccessResponse) []Policy {
	if resp.EpisodeAccess == nil || strings.TrimSpace(resp.EpisodeAccess.ACL) == "" {
		return []Policy{}
	}
	var list List
	if err := json.Unmarshal([]byte(resp.EpisodeAccess.ACL), &list); err != nil {
		return []Policy{}
	}
	return FromAces(list.ACL.Ace)
}

// FromAces aggregates entries into policies, one per role.
func FromAces(aces []Ace) []Policy {
	byRole := make(map[string]*Policy)
	roles := make([]string, 0)
	for _, ace := range aces {
		p, ok := byRole[ace.Role]
		if !ok {
			p = NewPolicy(ace.Role)
			byRole[ace.Role] = p
			roles = append(roles, ace.Role)
		}
		switch ace.Action {
		case ActionRead:
			p.Read = bool(ace.Allow)
		case ActionWrite:
			p.Write = bool(ace.Allow)
		default:
			if ace.Allow {
				p.Actions = append(p.Actions, ace.Action)
			}
		}
	}

	out := make([]Policy, 0, len(roles))
	for _, role := range roles {
		out = append(out, *byRole[role])
	}
	return out
}

// ToAces flattens policies back into entries. Read and write are always
// emitted so a role without grants survives the trip.
func ToAces(policies []Policy) []Ace {
	out := make([]Ace, 0, len(policies)*2)
	for _, p := range policies {
		out = append(out,
			Ace{Role: p.Role, Action: ActionRead, Allow: Allow(p.Read)},
			Ace{Role: p.Role, Action: ActionWrite, Allow: Allow(p.Write)},
		)
		for _, action := range p.Actions {
			if action == ActionRead || action == ActionWrite {
				continue
			}
			out = append(out, Ace{Role: p.Role, Action: action, Allow: true})
		}
	}
	return out
}

// Encode builds the form body for POST event/{id}/access.
func Encode(policies []Policy) (url.Values, error) {
	var list List
	list.ACL.Ace = ToAces(policies)
	data, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	form := url.Values{}
	form.Set("acl", string(data))
	form.Set("override", "true")
	return form, nil
}
