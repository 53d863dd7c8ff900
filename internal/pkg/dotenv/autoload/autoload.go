package autoload

import (
	"log"

	"perf-tester/internal/pkg/dotenv"
)

func init() {
	if err := dotenv.Load(); err != nil {
		log.Printf("dotenv autoload: %v", err)
	}
}
