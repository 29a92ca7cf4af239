package main

import (
	"context"
	"os"

	"github.com/aretw0/tendero/internal/output"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		output.New().Error("%v", err)
		os.Exit(1)
	}
}
