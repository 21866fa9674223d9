// Package token decodes bearer access tokens into claim values and classifies
// structural and temporal defects without ever verifying a signature.
//
// # Architecture boundaries
//
// token owns claim extraction and validity classification only. It performs no
// network or storage access, and every outcome — including malformed input — is
// returned as a value; Decode never panics and never returns an error.
//
// # What this package must NOT do
//
//   - Verify token signatures. Claim inspection here is a UX convenience; the
//     backend re-verifies signature and privilege on every request.
//   - Import any other sessionkit package.
//   - Mutate or cache decoded tokens.
package token
