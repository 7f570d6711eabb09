// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package identity

// Endpoints contains the URL paths of the identity REST API.
type Endpoints struct {
	GetLink       string
	GetToken      string
	ConfirmDevice string
	RefreshToken  string
	Logout        string
	Me            string
	Version       string
}

// DefaultEndpoints returns the paths served by aerostack.dev.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		GetLink:       "/api/cli/get-link",
		GetToken:      "/api/cli/get-token",
		ConfirmDevice: "/api/cli/confirm-device",
		RefreshToken:  "/api/cli/refresh-token",
		Logout:        "/api/cli/logout",
		Me:            "/api/cli/me",
		Version:       "/api/version",
	}
}
