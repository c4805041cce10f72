package main

import "github.com/swsnr/swsnr.de/cmd"

func main() {
	cmd.Execute()
}
