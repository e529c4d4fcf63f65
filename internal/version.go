package internal

// Version is the current lexirecall release version
const Version = "0.1.0"
