// Package match answers the host's per-candidate question: may this source
// ship this material to this destination?
//
// A Matcher reads a constraint store and never writes to it. Each side of a
// candidate is evaluated on its own (the source's output policy, the
// destination's input policy) and the result names the rule that decided it,
// which is what the inspect and harness tooling display.
package match
