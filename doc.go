// Package reltime computes localized relative-time phrases ("5 minutes ago",
// "in 2 hours") for arbitrary timestamp inputs and keeps them fresh over time.
//
// The package offers three equivalent surfaces:
//
//   - pure functions: Normalize, Calculate and Format (one-shot computation);
//   - a Watcher: a reactive value that re-derives its phrase whenever the
//     displayed bucket can change, using an adaptive wake-up schedule;
//   - a Fyne widget in the companion widget package, built on top of Watcher.
//
// Localization is backed by embedded go-i18n message bundles. Time is read
// through the Clock interface so that tests can drive a virtual clock.
package reltime
