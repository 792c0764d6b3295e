// Package deps turns stack choices and feature flags into the dependency
// and script sections of a generated package.json. Resolution is pure: the
// same input always yields the same manifest, and nothing here touches the
// filesystem.
package deps
