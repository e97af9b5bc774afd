// Package views holds the page-level state machines of the fintrack client.
//
// Each view owns one domain collection: it loads it, keeps the last good
// copy, and runs create/update/delete through a form and a confirmation
// step. Views know nothing about rendering.
//
// Views are not safe for concurrent use. Work that talks to the network is
// split in two so a UI event loop can run it elsewhere:
//
//	t, run := view.StartLoad()     // on the owning goroutine
//	data, err := run(ctx)          // anywhere; touches no view state
//	view.ApplyLoad(t, data, err)   // back on the owning goroutine
//
// Only the newest started load applies, so overlapping loads never leave
// an older result on screen.
//
// Load, Submit and ConfirmDelete do all three steps inline.
package views
