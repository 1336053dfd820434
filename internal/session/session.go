package session

import "encoding/json"

// Session is the authenticated identity held by the app for the current user.
// Claims carries whatever extra fields the login response returned alongside
// the token (name, email, message, ...).
type Session struct {
	Token  string
	Claims map[string]any
}

// Authenticated reports whether the session holds a credential. A non-empty
// token is trusted until the backend rejects it.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// MarshalJSON flattens the token into the claims so the persisted payload
// matches the login response shape.
func (s Session) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Claims)+1)
	for k, v := range s.Claims {
		out[k] = v
	}
	out["token"] = s.Token
	return json.Marshal(out)
}

// UnmarshalJSON restores a session from the persisted payload.
func (s *Session) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if tok, ok := raw["token"].(string); ok {
		s.Token = tok
	}
	delete(raw, "token")
	s.Claims = raw
	return nil
}
