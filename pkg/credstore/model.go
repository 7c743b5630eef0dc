package credstore

// Credential is one tenant's registered cloud credential record. The key and
// secret columns hold ciphertext only; plaintext never reaches the store.
type Credential struct {
	ID              string // uuid
	EncryptedKey    []byte
	EncryptedSecret []byte
	Region          string // default region, set at registration
	Fingerprint     string // hex digest of the plaintext pair, unique
}
