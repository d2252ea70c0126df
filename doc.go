// Package notehub is the Composition Root for the NoteHub client.
//
// It connects the core domain (notes, drafts, validation) with the REST
// adapter for the NoteHub API and the application controller that drives
// search, pagination and mutations.
//
// Features:
//
//   - **Hexagonal Architecture**: Core domain is isolated from the transport.
//   - **Local Validation**: Drafts are checked before anything is sent.
//   - **Debounced Search**: Only the last keystroke of a burst issues a read.
//   - **Stale-While-Revalidate**: Cached pages show at once while a fresh one loads.
//   - **Latest Read Wins**: Out-of-order responses never overwrite newer data.
//
// Usage:
//
//	// The token comes from NOTEHUB_TOKEN unless given explicitly.
//	ctrl, err := notehub.New(notehub.WithPageSize(12))
//	if err != nil {
//		return err
//	}
//	defer ctrl.Close()
//
//	ctrl.Start(ctx)
//	ctrl.TypeSearch("milk")
package notehub
