package main

import (
	"os"

	"github.com/jasonachkar/secure-api-gateway-sub000/internal/cli"
	"github.com/jasonachkar/secure-api-gateway-sub000/pkg/output"
)

func main() {
	if err := cli.Execute(); err != nil {
		output.Error("%v", err)
		os.Exit(1)
	}
}
