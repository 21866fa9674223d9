package flows

import (
	"context"
	"errors"
	"testing"
)

func TestRunLoginSuccess(t *testing.T) {
	var persisted [2]string
	deps := LoginDeps{
		Issue: func(_ context.Context, u, p string) (string, string, error) {
			if u != "alice" || p != "secret" {
				t.Fatalf("credentials = (%q, %q)", u, p)
			}
			return "access-1", "refresh-1", nil
		},
		Decode: validDecode("alice"),
		PersistPair: func(_ context.Context, a, r string) error {
			persisted = [2]string{a, r}
			return nil
		},
	}

	res := RunLogin(context.Background(), "alice", "secret", deps)
	if res.Failure != LoginFailureNone {
		t.Fatalf("failure = %v, want none (err: %v)", res.Failure, res.Err)
	}
	if persisted != [2]string{"access-1", "refresh-1"} {
		t.Fatalf("persisted = %v", persisted)
	}
	if res.Subject != "alice" {
		t.Fatalf("subject = %q", res.Subject)
	}
}

func TestRunLoginRejectedCredentials(t *testing.T) {
	rejected := errors.New("issuance rejected")
	deps := LoginDeps{
		Issue: func(context.Context, string, string) (string, string, error) {
			return "", "", rejected
		},
		IsRejected: func(err error) bool { return errors.Is(err, rejected) },
		Decode:     validDecode("alice"),
		PersistPair: func(context.Context, string, string) error {
			t.Fatal("nothing may persist on rejection")
			return nil
		},
	}

	res := RunLogin(context.Background(), "alice", "wrong", deps)
	if res.Failure != LoginFailureRejected {
		t.Fatalf("failure = %v, want rejected", res.Failure)
	}
}

func TestRunLoginBackendUnreachable(t *testing.T) {
	deps := LoginDeps{
		Issue: func(context.Context, string, string) (string, string, error) {
			return "", "", errors.New("connection refused")
		},
		IsRejected:  func(error) bool { return false },
		Decode:      validDecode("alice"),
		PersistPair: func(context.Context, string, string) error { return nil },
	}

	res := RunLogin(context.Background(), "alice", "secret", deps)
	if res.Failure != LoginFailureUnreachable {
		t.Fatalf("failure = %v, want unreachable", res.Failure)
	}
}

func TestRunLoginUndecodableToken(t *testing.T) {
	persisted := false
	deps := LoginDeps{
		Issue: func(context.Context, string, string) (string, string, error) {
			return "garbage", "refresh-1", nil
		},
		Decode: func(string) DecodeOutcome { return DecodeOutcome{} },
		PersistPair: func(context.Context, string, string) error {
			persisted = true
			return nil
		},
	}

	res := RunLogin(context.Background(), "alice", "secret", deps)
	if res.Failure != LoginFailureTokenInvalid {
		t.Fatalf("failure = %v, want token-invalid", res.Failure)
	}
	if persisted {
		t.Fatal("an undecodable token must not be persisted")
	}
}

func TestRunLoginPrivilegeGate(t *testing.T) {
	persisted := false
	deps := LoginDeps{
		Issue: func(context.Context, string, string) (string, string, error) {
			return "access-1", "refresh-1", nil
		},
		Decode: func(string) DecodeOutcome {
			return DecodeOutcome{Valid: true, Eligible: false, Subject: "mallory"}
		},
		PersistPair: func(context.Context, string, string) error {
			persisted = true
			return nil
		},
		RequireAdmin: true,
	}

	res := RunLogin(context.Background(), "mallory", "secret", deps)
	if res.Failure != LoginFailurePrivilege {
		t.Fatalf("failure = %v, want privilege", res.Failure)
	}
	if persisted {
		t.Fatal("a privilege rejection must not persist tokens")
	}
}

func TestRunLoginPersistFailure(t *testing.T) {
	deps := LoginDeps{
		Issue: func(context.Context, string, string) (string, string, error) {
			return "access-1", "refresh-1", nil
		},
		Decode: validDecode("alice"),
		PersistPair: func(context.Context, string, string) error {
			return errors.New("store unavailable")
		},
	}

	res := RunLogin(context.Background(), "alice", "secret", deps)
	if res.Failure != LoginFailurePersist {
		t.Fatalf("failure = %v, want persist", res.Failure)
	}
}
