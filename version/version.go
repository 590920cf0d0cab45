package version

// Version is the current release of the sheield binary.
const Version = "0.1.0"
