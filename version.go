package tendero

// Version is overridden at build time with -ldflags "-X github.com/aretw0/tendero.Version=...".
var Version = "0.1.0-dev"
