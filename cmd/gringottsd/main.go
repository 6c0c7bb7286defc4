package main

import (
	"fmt"
	"os"

	gringottsd "github.com/iov-one/gringotts/cmd/gringottsd/app"
	"github.com/iov-one/gringotts/commands/server"
)

func main() {
	env := &server.Env{
		Open:        gringottsd.Application,
		Codec:       gringottsd.Codec(),
		Initializer: gringottsd.Initializer(),
	}
	if err := server.RootCmd(gringottsd.Name, env).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}
