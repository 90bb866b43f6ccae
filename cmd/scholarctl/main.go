package main

import "github.com/smartscholars/accounts/internal/cli"

func main() {
	cli.Execute()
}
