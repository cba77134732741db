// Package policy holds the bulk editing operations layered on the
// constraint store: copying one building's policy onto another, pasting
// supply-chain link lists typed as text, and the custom vehicle assignments
// that travel with a copied policy.
package policy
