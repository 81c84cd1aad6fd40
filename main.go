package main

import "github.com/pryce-dev/vantage/cmd"

func main() {
	cmd.Execute()
}
