package main

import "github.com/Beastly713/sharesplit/cmd"

func main() {
	cmd.Execute()
}
