package main

import (
	"fmt"
	"io"
	"os"

	"github.com/user/rsafile/internal/cipher"
	"github.com/user/rsafile/internal/codec"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run validates the key file named by args[1] and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintf(stderr, "Usage: %s <key_file>\n", args[0])
		return 1
	}

	keyFile := args[1]

	f, err := os.Open(keyFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading key file: %v\n", err)
		return 1
	}
	kf, err := codec.ParseKeyFile(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing key: %v\n", err)
		return 1
	}
	key := kf.Keypair

	fmt.Fprintf(stdout, "Key file: %s\n", keyFile)
	fmt.Fprintf(stdout, "Modulus: %d\n", key.N)
	fmt.Fprintf(stdout, "Public exponent: %d\n", key.E)
	fmt.Fprintf(stdout, "Declared length: %d\n", kf.Length)

	// Validate mathematical properties
	fmt.Fprintln(stdout, "\nValidating mathematical properties...")

	failed := false
	if key.N == key.P*key.Q {
		fmt.Fprintln(stdout, "✓ n = p × q")
	} else {
		fmt.Fprintln(stdout, "✗ n ≠ p × q")
		failed = true
	}

	if err := key.Validate(); err == nil {
		fmt.Fprintln(stdout, "✓ d × e ≡ 1 (mod λ)")
	} else {
		fmt.Fprintf(stdout, "✗ %v\n", err)
		failed = true
	}

	if key.N <= 255 {
		fmt.Fprintln(stdout, "! n ≤ 255: bytes at or above n will not survive a round trip")
	}
	if key.P == key.Q {
		fmt.Fprintln(stdout, "! p = q: decryption is unreliable")
	}

	// Test encryption/decryption
	fmt.Fprintln(stdout, "\nTesting encryption/decryption...")
	message := []byte("test")

	units := cipher.EncryptBuffer(message, key.E, key.N)
	plaintext := cipher.DecryptBuffer(units, key.D, key.N)

	if string(plaintext) == string(message) {
		fmt.Fprintf(stdout, "✓ Successfully encrypted and decrypted: \"%s\"\n", plaintext)
	} else {
		fmt.Fprintf(stdout, "✗ Decryption mismatch: got %q\n", plaintext)
		failed = true
	}

	if failed {
		return 1
	}
	fmt.Fprintln(stdout, "\nKey validation complete!")
	return 0
}
