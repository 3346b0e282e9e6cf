package main

import (
	"context"
	"os"

	"github.com/yoanbernabeu/sshrun/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute(context.Background()))
}
