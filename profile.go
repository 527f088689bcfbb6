package tdassist

import (
	"encoding/json"
	"strings"
)

// SelectorProfile is an externally supplied bundle of DOM selectors
// identifying login form fields and a post-login success marker.
// All fields are optional.
type SelectorProfile struct {
	LoginURL           string `json:"login_url"`
	UsernameSelector   string `json:"username_sel"`
	PasswordSelector   string `json:"password_sel"`
	SubmitSelector     string `json:"submit_sel"`
	PostLoginIndicator string `json:"post_login_indicator"`
}

// HasCredentialSelectors reports whether both the username and the password
// selectors are set.
func (p SelectorProfile) HasCredentialSelectors() bool {
	return p.UsernameSelector != "" && p.PasswordSelector != ""
}

// Merge returns a copy of p where every non-empty field of override wins.
func (p SelectorProfile) Merge(override SelectorProfile) SelectorProfile {
	pick := func(a, b string) string {
		if b != "" {
			return b
		}
		return a
	}
	return SelectorProfile{
		LoginURL:           pick(p.LoginURL, override.LoginURL),
		UsernameSelector:   pick(p.UsernameSelector, override.UsernameSelector),
		PasswordSelector:   pick(p.PasswordSelector, override.PasswordSelector),
		SubmitSelector:     pick(p.SubmitSelector, override.SubmitSelector),
		PostLoginIndicator: pick(p.PostLoginIndicator, override.PostLoginIndicator),
	}
}

// ParseSelectorProfile decodes a selector profile document.
//
// Keys are matched case-insensitively. Each field accepts two spellings:
// login_url; username or username_sel; password or password_sel; submit or
// submit_sel; post_login_indicator or post_login_selector. The first spelling
// wins when both are present. Missing or non-string values become "".
func ParseSelectorProfile(data []byte) (SelectorProfile, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return SelectorProfile{}, Errorf(EINVALID, "invalid selector profile JSON: %v", err)
	}

	keys := make(map[string]string, len(raw))
	for k := range raw {
		lower := strings.ToLower(k)
		if _, ok := keys[lower]; !ok {
			keys[lower] = k
		}
	}
	get := func(names ...string) string {
		for _, name := range names {
			k, ok := keys[name]
			if !ok {
				continue
			}
			if s, ok := raw[k].(string); ok && s != "" {
				return s
			}
		}
		return ""
	}

	return SelectorProfile{
		LoginURL:           get("login_url"),
		UsernameSelector:   get("username", "username_sel"),
		PasswordSelector:   get("password", "password_sel"),
		SubmitSelector:     get("submit", "submit_sel"),
		PostLoginIndicator: get("post_login_indicator", "post_login_selector"),
	}, nil
}
