package main

import (
	"context"
	"txadmin-bridge/cmd/txbridge/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
