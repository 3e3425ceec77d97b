// Package models defines the display-ready shapes shared by the catalog services, the HTTP API and the CLI.
//
//   - [Card] : uniform search-result / list entry (id, title, image, release date, link)
//   - [Kind] : which catalog a card or saved-items list belongs to
//   - [ID] : type constraint for saved-item identifiers (numeric catalog ids or opaque strings)
//
// Cards are produced by the mappers in the services package and never carry upstream-specific fields.
package models
