// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

// Package auth implements GiftLink account registration, login and profile
// update.
//
// # Collaborators
//
// Service coordinates four collaborators, all injected at construction:
//   - UserRepository - persistent users keyed by email (see the postgres,
//     mongo and memory subpackages)
//   - PasswordHasher - bcrypt or argon2id
//   - TokenIssuer - HS256 bearer tokens carrying {"user":{"id":...}}
//   - RequestValidator - JSON Schema rules for request bodies
//
// # Errors
//
// Every error returned by Service is an oops error. KindOf sorts it into the
// client bucket (caller mistakes, safe to report) or the internal bucket
// (opaque to callers, logged with cause).
package auth
