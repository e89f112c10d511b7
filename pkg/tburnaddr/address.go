// Package tburnaddr implements TBURN address and hash encoding.
//
// Native addresses use Bech32m with the "tb" human-readable prefix
// (tb1 + 32 data chars + 6 checksum chars). Validator addresses use the
// "tbv" prefix. Legacy formats (tburn + 40 hex chars, 0x + 40 hex chars)
// are accepted and migrated to the native form.
package tburnaddr

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/ripemd160"
)

const (
	bech32mConst = 0x2bc830a3
	charset      = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

	// HRPWallet is the prefix for wallet and contract addresses.
	HRPWallet = "tb"
	// HRPValidator is the prefix for validator addresses.
	HRPValidator = "tbv"

	legacyPrefix          = "tburn"
	legacyValidatorPrefix = "tburnvalidator"
	addressHexLength      = 40

	// TxHashPrefix marks transaction hashes (th1 + 64 hex chars).
	TxHashPrefix = "th1"
	// BlockHashPrefix marks block hashes.
	BlockHashPrefix = "bh1"
)

var (
	charsetRev      [128]int8
	legacyAddressRe = regexp.MustCompile(`^[a-f0-9]{40}$`)

	// ErrInvalidAddress is returned when an address cannot be decoded.
	ErrInvalidAddress = errors.New("invalid tburn address")
)

func init() {
	for i := range charsetRev {
		charsetRev[i] = -1
	}
	for i, c := range charset {
		charsetRev[c] = int8(i)
	}
}

func polymod(values []byte) uint32 {
	gen := [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}
	chk := uint32(1)
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := 0; i < 5; i++ {
			if (top>>uint(i))&1 == 1 {
				chk ^= gen[i]
			}
		}
	}
	return chk
}

func hrpExpand(hrp string) []byte {
	out := make([]byte, 0, len(hrp)*2+1)
	for i := 0; i < len(hrp); i++ {
		out = append(out, hrp[i]>>5)
	}
	out = append(out, 0)
	for i := 0; i < len(hrp); i++ {
		out = append(out, hrp[i]&31)
	}
	return out
}

func createChecksum(hrp string, data []byte) []byte {
	values := append(hrpExpand(hrp), data...)
	values = append(values, 0, 0, 0, 0, 0, 0)
	mod := polymod(values) ^ bech32mConst
	out := make([]byte, 6)
	for i := 0; i < 6; i++ {
		out[i] = byte((mod >> uint(5*(5-i))) & 31)
	}
	return out
}

func verifyChecksum(hrp string, data []byte) bool {
	return polymod(append(hrpExpand(hrp), data...)) == bech32mConst
}

func convertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	acc := uint32(0)
	bits := uint(0)
	maxv := uint32(1)<<toBits - 1
	var out []byte
	for _, v := range data {
		if uint32(v)>>fromBits != 0 {
			return nil, fmt.Errorf("invalid data value %d for %d-bit group", v, fromBits)
		}
		acc = acc<<fromBits | uint32(v)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte(acc>>bits&maxv))
		}
	}
	if pad {
		if bits > 0 {
			out = append(out, byte(acc<<(toBits-bits)&maxv))
		}
	} else if bits >= fromBits || acc<<(toBits-bits)&maxv != 0 {
		return nil, errors.New("invalid padding in bit groups")
	}
	return out, nil
}

// EncodeBech32m encodes data under the given human-readable prefix.
func EncodeBech32m(hrp string, data []byte) (string, error) {
	values, err := convertBits(data, 8, 5, true)
	if err != nil {
		return "", err
	}
	combined := append(values, createChecksum(hrp, values)...)
	var b strings.Builder
	b.WriteString(hrp)
	b.WriteByte('1')
	for _, v := range combined {
		b.WriteByte(charset[v])
	}
	return b.String(), nil
}

// DecodeBech32m decodes a Bech32m string into its prefix and payload bytes.
func DecodeBech32m(addr string) (string, []byte, error) {
	lower := strings.ToLower(addr)
	if addr != lower && addr != strings.ToUpper(addr) {
		return "", nil, ErrInvalidAddress // mixed case
	}
	addr = lower
	pos := strings.LastIndexByte(addr, '1')
	if pos < 1 || pos+7 > len(addr) || len(addr) > 90 {
		return "", nil, ErrInvalidAddress
	}
	hrp := addr[:pos]
	data := make([]byte, 0, len(addr)-pos-1)
	for i := pos + 1; i < len(addr); i++ {
		c := addr[i]
		if c >= 128 || charsetRev[c] == -1 {
			return "", nil, ErrInvalidAddress
		}
		data = append(data, byte(charsetRev[c]))
	}
	if !verifyChecksum(hrp, data) {
		return "", nil, ErrInvalidAddress
	}
	decoded, err := convertBits(data[:len(data)-6], 5, 8, false)
	if err != nil {
		return "", nil, ErrInvalidAddress
	}
	return hrp, decoded, nil
}

// NewAddress encodes 20 bytes as a tb1 wallet address.
func NewAddress(data []byte) (string, error) {
	if len(data) != 20 {
		return "", errors.New("address data must be exactly 20 bytes")
	}
	return EncodeBech32m(HRPWallet, data)
}

// GenerateRandomAddress returns a random tb1 address. The result is not
// linked to any private key; intended for simulation flows only.
func GenerateRandomAddress() string {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	addr, err := EncodeBech32m(HRPWallet, buf)
	if err != nil {
		panic(err)
	}
	return addr
}

// GenerateSystemAddress derives a deterministic tb1 address from a label.
// Used for placeholder factory addresses when no real address is configured.
func GenerateSystemAddress(label string) string {
	sum := sha256.Sum256([]byte(label))
	addr, err := EncodeBech32m(HRPWallet, sum[:20])
	if err != nil {
		panic(err)
	}
	return addr
}

// AddressFromString derives a deterministic tb1 address from arbitrary input.
func AddressFromString(s string) string {
	sum := sha256.Sum256([]byte(s))
	addr, err := EncodeBech32m(HRPWallet, sum[:20])
	if err != nil {
		panic(err)
	}
	return addr
}

// DeriveAddressFromPublicKey hashes a secp256k1 public key (SHA-256 then
// RIPEMD-160) into a tb1 address that can receive transfers.
func DeriveAddressFromPublicKey(publicKeyHex string) (string, error) {
	clean := strings.TrimPrefix(publicKeyHex, "0x")
	pub, err := hex.DecodeString(clean)
	if err != nil {
		return "", fmt.Errorf("invalid public key hex: %w", err)
	}
	sum := sha256.Sum256(pub)
	h := ripemd160.New()
	h.Write(sum[:])
	return EncodeBech32m(HRPWallet, h.Sum(nil))
}

// FormatAddress converts any supported address format to the native tb1 form.
// tb1/tbv1 inputs pass through unchanged; legacy tburn and 0x forms are
// re-encoded; unknown inputs fall back to a deterministic hash-derived address.
func FormatAddress(addr string) string {
	if strings.HasPrefix(addr, "tb1") || strings.HasPrefix(addr, "tbv1") {
		return addr
	}
	if strings.HasPrefix(addr, legacyPrefix) && !strings.HasPrefix(addr, legacyValidatorPrefix) {
		h := addr[len(legacyPrefix):]
		if len(h) == addressHexLength {
			if b, err := hex.DecodeString(h); err == nil {
				if out, err := EncodeBech32m(HRPWallet, b); err == nil {
					return out
				}
			}
		}
	}
	if strings.HasPrefix(addr, "0x") {
		h := addr[2:]
		if len(h) == addressHexLength {
			if b, err := hex.DecodeString(h); err == nil {
				if out, err := EncodeBech32m(HRPWallet, b); err == nil {
					return out
				}
			}
		}
	}
	if legacyAddressRe.MatchString(strings.ToLower(addr)) {
		if b, err := hex.DecodeString(strings.ToLower(addr)); err == nil {
			if out, err := EncodeBech32m(HRPWallet, b); err == nil {
				return out
			}
		}
	}
	return AddressFromString(addr)
}

// ToLegacyFormat converts a tb1 address back to the tburn hex form.
func ToLegacyFormat(addr string) string {
	_, data, err := DecodeBech32m(addr)
	if err != nil {
		return addr
	}
	return legacyPrefix + hex.EncodeToString(data)
}

// PayloadBytes returns the 20-byte payload of a native or legacy address.
// Used where the chain RPC needs the raw account bytes.
func PayloadBytes(addr string) ([]byte, error) {
	if strings.HasPrefix(addr, "0x") && len(addr) == 42 {
		return hex.DecodeString(addr[2:])
	}
	if strings.HasPrefix(addr, legacyPrefix) && !strings.HasPrefix(addr, legacyValidatorPrefix) {
		h := addr[len(legacyPrefix):]
		if len(h) == addressHexLength {
			return hex.DecodeString(h)
		}
	}
	_, data, err := DecodeBech32m(addr)
	if err != nil {
		return nil, err
	}
	if len(data) != 20 {
		return nil, ErrInvalidAddress
	}
	return data, nil
}

// IsValidAddress reports whether addr is a well-formed TBURN address in
// either the native or legacy format.
func IsValidAddress(addr string) bool {
	if strings.HasPrefix(addr, "tb1") || strings.HasPrefix(addr, "tbv1") {
		_, data, err := DecodeBech32m(addr)
		return err == nil && len(data) == 20
	}
	if strings.HasPrefix(addr, legacyValidatorPrefix) {
		return regexp.MustCompile(`^tburnvalidator\d{4}$`).MatchString(addr)
	}
	if strings.HasPrefix(addr, legacyPrefix) {
		return legacyAddressRe.MatchString(addr[len(legacyPrefix):])
	}
	return false
}

// IsNativeFormat reports whether addr is already in tb1/tbv1 form.
func IsNativeFormat(addr string) bool {
	return strings.HasPrefix(addr, "tb1") || strings.HasPrefix(addr, "tbv1")
}

// TruncateAddress shortens an address for display, e.g. tb1qw50...pjn23.
func TruncateAddress(addr string, startChars, endChars int) string {
	if len(addr) <= startChars+endChars+3 {
		return addr
	}
	return addr[:startChars] + "..." + addr[len(addr)-endChars:]
}

// GenerateTxHash returns a random transaction hash in th1 format.
func GenerateTxHash() string {
	return randomHash(TxHashPrefix)
}

// GenerateBlockHash returns a random block hash in bh1 format.
func GenerateBlockHash() string {
	return randomHash(BlockHashPrefix)
}

func randomHash(prefix string) string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return prefix + hex.EncodeToString(buf)
}

// HashFromInput derives a deterministic prefixed hash from input data.
func HashFromInput(prefix, input string) string {
	sum := sha256.Sum256([]byte(input))
	return prefix + hex.EncodeToString(sum[:])
}
