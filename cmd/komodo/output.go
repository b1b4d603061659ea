package main

import (
	"fmt"

	"github.com/fatih/color"
)

func printInfo(msg string) {
	color.New(color.FgCyan).Printf("ℹ %s\n", msg)
}

func printSuccess(msg string) {
	color.New(color.FgGreen).Printf("✓ %s\n", msg)
}

func printError(err error) {
	color.New(color.FgRed, color.Bold).Print("Error: ")
	fmt.Println(err)
}
