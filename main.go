package main

import "github.com/Kariqs/bookstore-api/cmd"

func main() {
	cmd.Execute()
}
