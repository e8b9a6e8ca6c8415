package main

import "github.com/vivilo-commits/armonyco-v1-sub000/cmd"

func main() {
	cmd.Execute()
}
