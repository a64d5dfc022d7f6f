package storage

// WrapForTest exposes wrap to the external test package.
var WrapForTest = wrap
