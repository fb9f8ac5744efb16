// Package wallet authorizes note mutations without sessions.
//
// It offers two pure functions used by the record-access layer:
//
//   - IsValidAddress checks the lexical shape of an account address ("0x" + 40 hex digits).
//   - VerifySignature recovers the signer of a personal-message signature and compares it
//     case-insensitively to the claimed address.
//
// Both are total: malformed input is reported as false, never as an error or panic, so
// callers only branch on the boolean. Neither holds state, so both are safe for concurrent use.
package wallet
