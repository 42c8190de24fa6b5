// Package mocks provides mock implementations for testing the regionview client.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the
// auth gateway port. Hand-written doubles for simpler ports live in mocks/auth.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	gateway := mocks.NewMockAuthGateway(ctrl)
//	gateway.EXPECT().GetProfile(gomock.Any()).Return(profile, nil)
package mocks

// Generate mock for AuthGateway interface from internal/ports.
// This creates MockAuthGateway with methods for all AuthGateway interface methods:
// Login, Logout, Register, GetProfile
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=auth_gateway_mock.go github.com/skilldrones/regionview/internal/ports AuthGateway
