package main

import "github.com/localdb/localdb/cmd"

func main() {
	cmd.Execute()
}
