// Package cli provides the interactive labdrive command-line client.
//
// It wires configuration, the local SQLite store, the backend API client and
// the file services into a REPL. Uploads go through the same file manager the
// web pages use: the paths given to upload/attach play the role of the form's
// file input, and listings are printed as tables.
//
// A background watcher pings the backend and flips the prompt between online
// and offline. Logging in mounts the project's image storage hook, which keeps
// the cached capability fresh until the program exits.
package cli
