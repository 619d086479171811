package latticework

// Version is the release reported by `latticework version`.
const Version = "0.1.0"
