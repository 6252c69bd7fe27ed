package main

import "github.com/bcomnes/bop/cmd"

func main() {
	cmd.Execute(Version)
}
