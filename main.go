package main

import (
	"github.com/gravwave/gwdetect/cmd"
	"github.com/gravwave/gwdetect/internal/recovery"
)

func main() {
	defer recovery.HandlePanic()
	cmd.Execute()
}
