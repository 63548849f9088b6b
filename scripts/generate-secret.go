// Package main is a development utility that generates a random JWT signing
// secret and prints it ready to paste into an env file. Run it once when setting
// up a new environment:
//
//	go run scripts/generate-secret.go
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
)

func main() {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		log.Fatal(err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(secret)

	fmt.Println("Generated JWT signing secret:")
	fmt.Println()
	fmt.Printf("  FLX_AUTH_JWT_SECRET=%s\n", encoded)
	fmt.Println()
	fmt.Println("Rotating this secret invalidates every active session.")
}
