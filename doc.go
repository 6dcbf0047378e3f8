// Package inkwell is the Composition Root for the inkwell client.
//
// It wires the client-side state of a notes service together: a Transport
// Client talking to the REST API, a Session Store owning the credential, a
// Note Collection Store holding the user's notes, and a Search View over
// them.
//
// Stores are explicit objects injected by constructors; nothing is global.
// Every state change is published to subscribers (Subscribe / Watch), so
// any presentation layer (CLI, TUI, web) can re-render from the latest
// snapshot.
//
// Features:
//
//   - **Server-confirmed writes**: the collection only ever holds notes the
//     server acknowledged; failed creates and deletes leave it unchanged.
//   - **Superseding loads**: a slow list request never overwrites a newer one.
//   - **Durable session**: the credential survives restarts in a 0600 file,
//     written atomically, and is followed across processes via fsnotify.
//   - **Dev sandbox**: under `go run` / `go test` the session file is moved
//     into a temporary directory.
//
// Usage:
//
//	nb, err := inkwell.New("https://notes.example.com/api/v1",
//		inkwell.WithLogger(logger),
//	)
//
//	err = nb.Session().Login(ctx, "ada@example.com", password)
//	err = nb.Notes().Load(ctx)
//	hits := nb.Search("milk")
package inkwell
