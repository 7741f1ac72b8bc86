// Package poll runs a function on a fixed interval until its context
// ends or Stop is called.
//
// The product polls retraining status, model performance and community
// insights while the owning view is open. Timer lifetime is tied to
// the caller's context, never to the process, so a torn-down view
// cannot leave an orphaned timer mutating state behind it.
package poll
