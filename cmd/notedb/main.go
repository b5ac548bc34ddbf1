/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/notedb/cmd/notedb/cmd"

func main() {
	cmd.Execute()
}
