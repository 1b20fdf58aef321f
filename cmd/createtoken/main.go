package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"praxido.de/praxido/security"
)

func main() {
	userStr := flag.String("user", "", "user id (uuid)")
	practiceStr := flag.String("practice", "", "practice id (uuid)")
	role := flag.String("role", "member", "role claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	userID, err := uuid.Parse(*userStr)
	if err != nil {
		log.Fatal("invalid -user: ", err)
	}
	practiceID, err := uuid.Parse(*practiceStr)
	if err != nil {
		log.Fatal("invalid -practice: ", err)
	}

	secret := os.Getenv("PRAXIDO_SIGNING_SECRET")
	if secret == "" {
		log.Fatal("PRAXIDO_SIGNING_SECRET is not set")
	}

	token, err := security.CreateIdentityToken(&security.PraxidoIdentity{
		UserID:     userID,
		PracticeID: practiceID,
		Role:       *role,
	}, secret, *ttl)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
