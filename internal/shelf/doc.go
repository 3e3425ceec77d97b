// Package shelf maintains saved-items lists (watchlists, bookshelves) as capped, ordered sets
// carried in a client cookie.
//
// # List semantics
//
// A list is an ordered sequence of identifiers, most recently added last, with no duplicates
// and at most [Variant.Cap] entries. [Add] moves an existing identifier to the end instead of
// duplicating it and drops the oldest entries once the cap is exceeded; [Remove] deletes every
// occurrence and is a no-op for absent identifiers. Both return new slices.
//
// # Cookie transport
//
// The cookie value is the URL-encoded JSON array of identifiers (numbers for movies and games,
// strings for books). The cookie is untrusted client input, so [Variant.Parse] never fails:
// anything it cannot read becomes an empty list and invalid elements are dropped.
//
// Writes are read-modify-write with no locking. Two tabs mutating the same list race and the
// last response to set the cookie wins.
package shelf
