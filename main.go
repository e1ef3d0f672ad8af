package main

import (
	"github.com/frkngnc/commitor/cmd"
)

func main() {
	cmd.Execute()
}
