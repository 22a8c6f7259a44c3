package settings

import (
	"os"
	"strings"

	"github.com/ProtonMail/gopenpgp/v3/crypto"
	"github.com/cockroachdb/errors"

	"github.com/resolvectl/resolvectl/internal/resolve"
)

const pgpMessageMarker = "-----BEGIN PGP MESSAGE-----"

// PlainDecrypter passes settings through unchanged. It is used when no
// master key is configured, i.e. credentials are stored in plaintext.
type PlainDecrypter struct{}

// Decrypt implements resolve.SettingsDecrypter.
func (PlainDecrypter) Decrypt(req resolve.DecryptionRequest) resolve.DecryptionResult {
	return resolve.DecryptionResult{Proxies: req.Proxies, Servers: req.Servers}
}

// PGPDecrypter decrypts credential values stored as armored PGP
// messages using a master private key. Values that do not look like
// PGP messages pass through unchanged. Failures on individual entries
// are collected as problems; the entry keeps its original value.
type PGPDecrypter struct {
	pgp *crypto.PGPHandle
	key *crypto.Key
}

// NewPGPDecrypter loads the armored master private key from keyPath.
// passphrase may be nil for an unlocked key.
func NewPGPDecrypter(keyPath string, passphrase []byte) (*PGPDecrypter, error) {
	armored, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read master key")
	}
	key, err := crypto.NewPrivateKeyFromArmored(string(armored), passphrase)
	if err != nil {
		return nil, errors.Wrap(err, "cannot parse master key")
	}
	return &PGPDecrypter{pgp: crypto.PGP(), key: key}, nil
}

// NewPGPDecrypterFromKey wraps an already loaded private key.
func NewPGPDecrypterFromKey(key *crypto.Key) *PGPDecrypter {
	return &PGPDecrypter{pgp: crypto.PGP(), key: key}
}

// Decrypt implements resolve.SettingsDecrypter.
func (d *PGPDecrypter) Decrypt(req resolve.DecryptionRequest) resolve.DecryptionResult {
	result := resolve.DecryptionResult{
		Proxies: append([]resolve.Proxy(nil), req.Proxies...),
		Servers: append([]resolve.Server(nil), req.Servers...),
	}

	for i := range result.Proxies {
		proxy := &result.Proxies[i]
		if proxy.Auth == nil {
			continue
		}
		auth := *proxy.Auth
		result.Problems = append(result.Problems,
			d.decryptValue(&auth.Password, "proxy "+proxy.Host+": password")...)
		proxy.Auth = &auth
	}

	for i := range result.Servers {
		server := &result.Servers[i]
		result.Problems = append(result.Problems,
			d.decryptValue(&server.Password, "server "+server.ID+": password")...)
		result.Problems = append(result.Problems,
			d.decryptValue(&server.Passphrase, "server "+server.ID+": passphrase")...)
	}

	return result
}

// decryptValue decrypts *value in place when it carries an armored PGP
// message. On failure the value is left unchanged and a problem is
// returned.
func (d *PGPDecrypter) decryptValue(value *string, what string) []resolve.Problem {
	if !strings.Contains(*value, pgpMessageMarker) {
		return nil
	}
	decHandle, err := d.pgp.Decryption().DecryptionKey(d.key).New()
	if err != nil {
		return []resolve.Problem{{Message: "cannot init decryption for " + what, Err: err}}
	}
	defer decHandle.ClearPrivateParams()

	decrypted, err := decHandle.Decrypt([]byte(*value), crypto.Armor)
	if err != nil {
		return []resolve.Problem{{Message: "cannot decrypt " + what, Err: err}}
	}
	*value = string(decrypted.Bytes())
	return nil
}
