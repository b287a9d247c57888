// Package verify decides whether the fields declared for a product label
// actually appear on the label, given the text an OCR engine read from it.
//
// The package is pure: it performs no I/O, holds no mutable state and never
// logs. A *Verifier is immutable once built and may be shared by any number of
// goroutines.
//
// # Checks
//
// Every call to Verify runs five checks and reports them in a fixed order:
//
//   - Brand Name, Product Class/Type and Net Contents use MatchTextField
//   - Alcohol Content (ABV) uses MatchAlcoholContent
//   - Government Warning compares normalized text against the legal statement
//
// The overall status is "success" only when all five checks matched. No check
// is skipped because an earlier one failed.
//
// # Text Matching
//
// MatchTextField builds a case-insensitive pattern from the declared value:
// every rune is escaped, a space matches any run of whitespace (OCR often
// breaks a field across lines) and a hyphen matches zero or more spaces or
// hyphens ("Old-Tom" matches "OLD TOM", "OLD-TOM" and "OLDTOM"; a space never
// matches a hyphen). A match only counts when it is not glued to a letter or
// digit on the left, nor to a letter, digit or hyphen on the right, so
// "Bourbon" does not match "Bourbon-like".
//
// # Normalization
//
// Normalize lowercases text, drops every rune outside a-z, 0-9 and
// whitespace, then collapses whitespace. Accented and other non-ASCII letters
// are dropped rather than folded; labels in languages other than English may
// therefore lose letters before the government warning comparison.
package verify
