// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGrid Contributors

// Package auth implements the credential lifecycle for the user directory:
// account registration, password hashing and verification, and issuance and
// validation of opaque bearer tokens.
//
// # Domain Types
//
// User and Token are plain records. Tokens are bound to the owning user by
// numeric ID and carry a fixed expiry horizon set at issuance; they are never
// extended or revoked.
//
// # Services
//
// Service orchestrates the repositories and the password hasher. It is the
// only place where storage errors are folded into the three outward-facing
// conditions: duplicate email, invalid credentials, and invalid token.
// Repository implementations live in the postgres subpackage.
package auth
