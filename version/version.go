package version

// Version is set at build time with -ldflags "-X github.com/juruen/hwrt/version.Version=...".
var Version = "dev"
