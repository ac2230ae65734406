package core

// Session is the mutable-by-replacement state of one login flow: setting a
// new key, token or proof replaces prior state wholesale. A Session is not
// safe for concurrent mutation; callers serialize access per in-flight login.
type Session struct {
	Key   *EphemeralKeyData
	Nonce string
	JWT   string
	Proof *ZkProofBundle
}

// Reset zeroizes the ephemeral private key and clears all session state.
func (s *Session) Reset() {
	if s.Key != nil {
		s.Key.Zeroize()
	}
	s.Key = nil
	s.Nonce = ""
	s.JWT = ""
	s.Proof = nil
}

// Params returns the proof parameter triple for external persistence.
func (s *Session) Params() ProofParams {
	p := ProofParams{}
	if s.Key != nil {
		p.Randomness = s.Key.Randomness
		p.PublicKey = s.Key.PublicKeyBase64()
		p.MaxEpoch = s.Key.MaxEpoch
	}
	return p
}
