// Command publishtoken は POST /reddit-sentiment 用の Bearer トークンを発行します。
//
//	PUBLISH_JWT_SECRET=... go run ./cmd/publishtoken -publisher n8n-workflow -ttl 720h
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"sentiment_backend/internal/app/config"
	jwtmw "sentiment_backend/internal/platform/jwt"
)

func main() {
	publisher := flag.String("publisher", "dashboard", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	g, err := jwtmw.NewGenerator(cfg.PublishJWTSecret, *ttl)
	if err != nil {
		log.Fatal("PUBLISH_JWT_SECRET must be set: ", err)
	}
	tok, err := g.GenerateToken(*publisher)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(tok)
}
