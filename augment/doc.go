// Package augment produces user-facing listing descriptions.
//
// The service assembles a deterministic description from the listing's
// structured fields, then asks a language model to rewrite it more fluently.
// The deterministic text is the contract: model failures of any kind are
// absorbed and the caller receives the fallback unchanged.
package augment
