package main

import (
	"context"
	"log"

	"github.com/Apurer/cat-haven/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("cat-haven API exited: %v", err)
	}
}
