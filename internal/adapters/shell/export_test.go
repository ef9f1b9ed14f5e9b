package shell

// PrependPath exposes prependPath for testing.
var PrependPath = prependPath

// LookPathIn exposes lookPath for testing.
var LookPathIn = lookPath
