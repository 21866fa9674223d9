package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// RoleAdmin is the role claim value that grants administrative eligibility.
	RoleAdmin = "admin"
	// RoleDefault is applied when a decoded token carries no role claim.
	RoleDefault = "user"
)

// defaultMinLength is the smallest input accepted as a plausible bearer token.
// Anything shorter cannot hold a signed three-segment payload.
const defaultMinLength = 20

// Reason classifies why a token failed to decode into usable Claims.
//
// Reason instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Reason uint8

const (
	// ReasonNone means the token decoded into valid, unexpired Claims.
	ReasonNone Reason = iota
	// ReasonMalformed means the input was empty, too short, or not decodable.
	ReasonMalformed
	// ReasonNoExpiry means the payload decoded but carries no exp claim.
	ReasonNoExpiry
	// ReasonExpired means the exp claim lies at or before the current instant.
	ReasonExpired
	// ReasonNoSubject means the payload decoded but carries no sub claim.
	ReasonNoSubject
)

// String describes the string operation and its observable behavior.
//
// String does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonMalformed:
		return "malformed"
	case ReasonNoExpiry:
		return "no_expiry"
	case ReasonExpired:
		return "expired"
	case ReasonNoSubject:
		return "no_subject"
	default:
		return "unknown"
	}
}

// Claims is the decoded payload of an access token with defaults applied for
// optional fields.
//
// Claims instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Claims struct {
	Subject     string
	ExpiresAt   int64
	Role        string
	IsSuperuser bool
	Username    string
	FullName    string
	Email       string
}

// AdminEligible reports whether the claims satisfy the administrative gate:
// the superuser flag is set or the role claim equals [RoleAdmin].
//
// AdminEligible does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Claims) AdminEligible() bool {
	return c.IsSuperuser || c.Role == RoleAdmin
}

// ExpiresIn returns the remaining validity window relative to now. The result
// is negative once the token has expired.
//
// ExpiresIn does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Claims) ExpiresIn(now time.Time) time.Duration {
	return time.Unix(c.ExpiresAt, 0).Sub(now)
}

// Result carries either populated Claims or the classification of the defect.
//
// Result instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Result struct {
	Claims *Claims
	Reason Reason

	// ExpiredFor is how long ago the token lapsed; set only for ReasonExpired.
	ExpiredFor time.Duration
}

// Valid reports whether the decode produced usable Claims.
//
// Valid does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r Result) Valid() bool {
	return r.Reason == ReasonNone
}

// Config defines a public type used by sessionkit APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// MinLength rejects inputs shorter than a plausible token early.
	// Zero selects the package default.
	MinLength int

	// Now overrides the clock; nil selects time.Now. Used by tests.
	Now func() time.Time
}

// Codec defines a public type used by sessionkit APIs.
//
// Codec instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Codec struct {
	minLength int
	now       func() time.Time
	parser    *jwt.Parser
}

// NewCodec describes the newcodec operation and its observable behavior.
//
// NewCodec may return an error when input validation, dependency calls, or security checks fail.
// NewCodec does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.MinLength < 0 {
		return nil, errors.New("invalid minimum token length")
	}
	if cfg.MinLength == 0 {
		cfg.MinLength = defaultMinLength
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Codec{
		minLength: cfg.MinLength,
		now:       cfg.Now,
		parser:    jwt.NewParser(),
	}, nil
}

// Decode inspects a bearer token and returns its Claims or the reason it is
// unusable. The payload is decoded without signature verification; Decode is
// pure with respect to a fixed clock and safe to call redundantly.
//
// Decode does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Codec) Decode(tokenStr string) Result {
	trimmed := strings.TrimSpace(tokenStr)
	if len(trimmed) < c.minLength {
		return Result{Reason: ReasonMalformed}
	}

	raw := jwt.MapClaims{}
	if _, _, err := c.parser.ParseUnverified(trimmed, raw); err != nil {
		return Result{Reason: ReasonMalformed}
	}

	exp, err := raw.GetExpirationTime()
	if err != nil || exp == nil {
		return Result{Reason: ReasonNoExpiry}
	}

	// Exclusive boundary: a token is usable only while now < exp.
	now := c.now()
	if !now.Before(exp.Time) {
		return Result{
			Reason:     ReasonExpired,
			ExpiredFor: now.Sub(exp.Time),
		}
	}

	sub, err := raw.GetSubject()
	if err != nil || sub == "" {
		return Result{Reason: ReasonNoSubject}
	}

	return Result{
		Claims: &Claims{
			Subject:     sub,
			ExpiresAt:   exp.Unix(),
			Role:        stringClaim(raw, "role", RoleDefault),
			IsSuperuser: boolClaim(raw, "is_superuser"),
			Username:    stringClaim(raw, "username", ""),
			FullName:    stringClaim(raw, "full_name", ""),
			Email:       stringClaim(raw, "email", ""),
		},
	}
}

func stringClaim(m jwt.MapClaims, key, fallback string) string {
	v, ok := m[key]
	if !ok {
		return fallback
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return fallback
	}
	return s
}

func boolClaim(m jwt.MapClaims, key string) bool {
	v, ok := m[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}
