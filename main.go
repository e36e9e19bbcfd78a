package main

import (
	"github.com/rancher/grafana2moira/cmd"
)

func main() {
	cmd.Execute()
}
