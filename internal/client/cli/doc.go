// Package cli provides the interactive Hub command-line client.
//
// It wires configuration, the local session database, the REST client and
// the auth services into a REPL. On start the saved session is restored
// immediately and revalidated in the background; the prompt reflects the
// session state as it changes.
//
// While the account is banned or unverified, commands are gated: only the
// commands the current notice permits are run.
//
// Key commands:
//   - register / login / logout / whoami
//   - resend / verify-email <token>
//   - reset-request / reset-verify / reset-code / reset-link <token>
//   - profile-edit / profile <id> / can <group>
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
