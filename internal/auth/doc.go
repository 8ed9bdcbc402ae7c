// Package auth issues and validates bearer tokens for the assistant API.
//
// Two roles exist:
//   - agent: the smart-home cloud calling the fulfillment endpoint
//   - installer: an administrator editing device configuration
//
// Tokens are HS256 JWTs carrying the role and a random token id (jti).
// Authorisation is a static role-permission mapping, no database lookup.
package auth
