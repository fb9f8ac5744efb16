package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignatureLength is the size of an [R || S || V] secp256k1 signature.
const SignatureLength = crypto.SignatureLength

// Wallets emit V as 27/28; the recovery primitive expects 0/1.
const legacyRecoveryOffset = 27

var (
	errSignatureEncoding = errors.New("signature is not valid hex")
	errSignatureLength   = errors.New("signature has wrong length")
	errRecoveryID        = errors.New("signature has invalid recovery id")
)

// HashMessage applies the personal-message encoding to message:
// keccak256("\x19Ethereum Signed Message:\n" + len(message) + message).
func HashMessage(message string) []byte {
	return accounts.TextHash([]byte(message))
}

// VerifySignature reports whether signature over message was produced by the key
// controlling claimedAddress. Every failure (bad encoding, recovery fault, mismatch)
// yields false; it never panics.
func VerifySignature(message, signature, claimedAddress string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	recovered, err := RecoverAddress(message, signature)
	if err != nil {
		return false
	}
	return SameAddress(recovered.Hex(), claimedAddress)
}

// RecoverAddress returns the address that signed message. It is the error-returning
// counterpart of VerifySignature, meant for diagnostics and tooling.
func RecoverAddress(message, signature string) (common.Address, error) {
	sig, err := decodeSignature(signature)
	if err != nil {
		return common.Address{}, err
	}

	pub, err := crypto.SigToPub(HashMessage(message), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// decodeSignature parses a hex signature (with or without 0x) into the 65-byte form
// expected by crypto.SigToPub. The input is never mutated.
func decodeSignature(signature string) ([]byte, error) {
	s := strings.TrimSpace(signature)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}

	sig, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errSignatureEncoding, err)
	}
	if len(sig) != SignatureLength {
		return nil, fmt.Errorf("%w: got %d bytes", errSignatureLength, len(sig))
	}

	v := sig[crypto.RecoveryIDOffset]
	if v >= legacyRecoveryOffset {
		v -= legacyRecoveryOffset
	}
	if v > 1 {
		return nil, errRecoveryID
	}
	sig[crypto.RecoveryIDOffset] = v
	return sig, nil
}

// SignMessage signs message with key using the personal-message encoding and returns the
// 0x-prefixed hex signature with V in wallet form (27/28).
func SignMessage(message string, key *ecdsa.PrivateKey) (string, error) {
	if key == nil {
		return "", errors.New("private key is nil")
	}
	sig, err := crypto.Sign(HashMessage(message), key)
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += legacyRecoveryOffset
	return hexutil.Encode(sig), nil
}

// GenerateKey creates a fresh secp256k1 private key.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	return crypto.GenerateKey()
}

// ParsePrivateKey parses a hex private key, with or without 0x.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	s := strings.TrimSpace(hexKey)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	key, err := crypto.HexToECDSA(s)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

// EncodePrivateKey returns the 0x-prefixed hex form of key.
func EncodePrivateKey(key *ecdsa.PrivateKey) string {
	return hexutil.Encode(crypto.FromECDSA(key))
}

// AddressOf returns the checksummed address controlled by key.
func AddressOf(key *ecdsa.PrivateKey) string {
	return crypto.PubkeyToAddress(key.PublicKey).Hex()
}
