// Command token mints development access tokens for the booking API.
//
//	go run ./cmd/token -sub john -role PASSENGER
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/flight-seat-manager/internal/middleware"
	"github.com/iliyamo/flight-seat-manager/internal/utils"
)

func main() {
	_ = godotenv.Load()
	sub := flag.String("sub", "", "token subject: passenger name, or operator name for AGENT/ADMIN")
	role := flag.String("role", middleware.RolePassenger, "PASSENGER, AGENT or ADMIN")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	asJSON := flag.Bool("json", false, "print token and expiry as JSON")
	flag.Parse()

	switch *role {
	case middleware.RolePassenger, middleware.RoleAgent, middleware.RoleAdmin:
	default:
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	tok, err := utils.NewAccessToken(os.Getenv("JWT_SECRET"), *sub, *role, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "token:", err)
		os.Exit(1)
	}
	if *asJSON {
		_ = json.NewEncoder(os.Stdout).Encode(tok)
		return
	}
	fmt.Println(tok.Token)
}
