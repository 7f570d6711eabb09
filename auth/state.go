// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import "encoding/json"

// State is the persisted login state. It lives in the keychain next to the
// tokens so a keychain wipe removes both.
type State struct {
	LoggedIn bool   `json:"logged_in"`
	Account  string `json:"account"`
}

// loadState reads login state from the keychain. Missing state yields the
// zero value.
func (s *Service) loadState() (State, error) {
	var st State
	data, err := s.keys.LoadAuthState()
	if err != nil {
		return st, err
	}
	if len(data) == 0 {
		return st, nil
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, err
	}
	return st, nil
}

func (s *Service) saveState(st State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.keys.SaveAuthState(b)
}

func (s *Service) clearState() error {
	return s.keys.ClearAuthState()
}

// IsLoggedIn reports whether local state considers the user logged in. It
// does not validate tokens with the server; use WhoAmI for that.
func (s *Service) IsLoggedIn() (bool, error) {
	st, err := s.loadState()
	if err != nil {
		return false, err
	}
	return st.LoggedIn, nil
}
