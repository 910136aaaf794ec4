package abacus

// Version is the library version, overridden at build time with
// -ldflags "-X github.com/aretw0/abacus.Version=...".
var Version = "0.3.0"
