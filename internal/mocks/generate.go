// Package mocks provides mock implementations for testing the refund UI.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockRefundAPI(ctrl)
//	api.EXPECT().Upload(gomock.Any(), "token", gomock.Any()).Return("receipt.png", nil)
package mocks

// Generate mock for RefundAPI interface from internal/ports package.
// This creates MockRefundAPI with methods for all RefundAPI interface methods:
// List, Get, Upload, Create
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=refund_api_mock.go github.com/target/refund-ui/internal/ports RefundAPI
