// Package flows holds the session lifecycle orchestration logic, free of root
// package dependencies. Each flow is a Run function taking a deps struct of
// injected capabilities and returning a result with a classified FailureKind;
// the root package maps kinds to state transitions, error strings, and metrics.
package flows
