package mocks

// Mock generation directives. Run `go generate ./internal/mocks/` to regenerate.

//go:generate go run go.uber.org/mock/mockgen -source=../../core/contracts.go -destination=mock_contracts.go -package=mocks
//go:generate go run go.uber.org/mock/mockgen -source=../../store/store.go -destination=mock_store.go -package=mocks
//go:generate go run go.uber.org/mock/mockgen -source=../../metrics/metrics.go -destination=mock_metrics.go -package=mocks
