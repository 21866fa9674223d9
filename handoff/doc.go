// Package handoff transfers an existing session between the two applications
// through short-lived, single-use tickets held in the ephemeral store.
//
// The source application writes a ticket under a random key and hands the key
// to the destination inside an entry URL; the destination consumes the ticket
// exactly once. Tickets are time-boxed independently of the token expiry they
// carry.
//
// # What this package must NOT do
//
//   - Decide authentication outcomes; it stores, loads, and deletes tickets.
//     Privilege gating and claim decoding happen in the consuming flow.
//   - Keep a consumed or expired ticket alive: any read removes it.
package handoff
