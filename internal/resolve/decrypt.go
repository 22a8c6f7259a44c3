package resolve

// SettingsDecrypter decrypts the sensitive fields of proxies and
// servers before they are bound to a session. Implementations return
// plaintext copies; failures on individual entries are reported as
// problems, never as errors, so that the remaining entries stay
// usable.
type SettingsDecrypter interface {
	Decrypt(req DecryptionRequest) DecryptionResult
}

// DecryptionRequest carries the raw proxy and server lists.
type DecryptionRequest struct {
	Proxies []Proxy
	Servers []Server
}

// DecryptionResult carries the decrypted lists and any non-fatal
// problems encountered while decrypting individual entries.
type DecryptionResult struct {
	Proxies  []Proxy
	Servers  []Server
	Problems []Problem
}

// Problem describes a non-fatal decryption failure. Problems are
// reported at debug severity only and never abort session
// construction.
type Problem struct {
	Message string
	Err     error
}
